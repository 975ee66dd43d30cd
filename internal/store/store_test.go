package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "encodes.db"), filepath.Join(dir, "encodes.lock"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testEntry(id, createdAt string) Entry {
	return Entry{
		ID:             id,
		Chain:          "ethereum",
		Strategy:       "router",
		SolutionDigest: "sha256:6b86b273ff34fce19d6b804eff5a3f5747ada4eaa22f1d49c01e52ddb7875b4b",
		To:             "0x023d2eE31F1c1b6f0B2e3f4B1a2C18Fa1E2dA4d5",
		Value:          "0x0",
		Data:           "0xdeadbeef",
		CreatedAt:      createdAt,
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	want := testEntry("enc_0001", "2026-08-30T12:00:00Z")
	if err := s.Record(want); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := s.Get("enc_0001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	older := testEntry("enc_0001", "2026-08-30T12:00:00Z")
	newer := testEntry("enc_0002", "2026-08-30T13:00:00Z")
	if err := s.Record(older); err != nil {
		t.Fatalf("record older: %v", err)
	}
	if err := s.Record(newer); err != nil {
		t.Fatalf("record newer: %v", err)
	}

	entries, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "enc_0002" || entries[1].ID != "enc_0001" {
		t.Fatalf("unexpected order: %s, %s", entries[0].ID, entries[1].ID)
	}
}

func TestListHonorsLimit(t *testing.T) {
	s := openTestStore(t)
	for i, ts := range []string{"2026-08-30T12:00:00Z", "2026-08-30T13:00:00Z", "2026-08-30T14:00:00Z"} {
		if err := s.Record(testEntry(fmt.Sprintf("enc_%04d", i+1), ts)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
	entries, err := s.List(2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("enc_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordRequiresID(t *testing.T) {
	s := openTestStore(t)
	if err := s.Record(testEntry("", "2026-08-30T12:00:00Z")); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestRecordRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	entry := testEntry("enc_0001", "2026-08-30T12:00:00Z")
	if err := s.Record(entry); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := s.Record(entry); err == nil {
		t.Fatal("expected primary key violation")
	}
}
