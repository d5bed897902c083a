package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, rel, src string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestScanFlagsDirectStoreAccess(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "internal/reporting/report.go", `package reporting

func build(store anyStore) {
	store.GetAll(nil, "weeklycheckins", nil)
}
`)

	findings, err := scan(dir, defaultAllow)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if findings[0].collection != "weeklycheckins" {
		t.Errorf("collection = %q, want weeklycheckins", findings[0].collection)
	}
	if findings[0].method != "GetAll" {
		t.Errorf("method = %q, want GetAll", findings[0].method)
	}
}

func TestScanFlagsMongoDriverAccess(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "internal/reporting/raw.go", `package reporting

func raw(db anyDB) {
	db.Collection("clientprofiles").Drop(nil)
}
`)

	findings, err := scan(dir, defaultAllow)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if findings[0].method != "Collection" {
		t.Errorf("method = %q, want Collection", findings[0].method)
	}
}

func TestScanIgnoresUnprotectedCollections(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "internal/reporting/ok.go", `package reporting

func ok(db anyDB) {
	db.Collection("sessions").Drop(nil)
}
`)

	findings, err := scan(dir, defaultAllow)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("findings = %d, want 0", len(findings))
	}
}

func TestScanAllowsGatewayPackage(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "internal/core/service/gateway.go", `package service

func (s *Gateway) load(store anyStore) {
	store.GetAll(nil, "weeklycheckins", nil)
}
`)

	findings, err := scan(dir, defaultAllow)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("findings = %d, want 0", len(findings))
	}
}

func TestScanHonorsBypassComment(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "internal/migrate/backfill.go", `package migrate

func backfill(store anyStore) {
	//authz:admin-bypass backfill of pre-rule records
	store.Update(nil, "weeklysummaries", "id", nil)
}
`)

	findings, err := scan(dir, defaultAllow)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("findings = %d, want 0", len(findings))
	}
}

func TestScanUnwrapsCollectionConversion(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "internal/reporting/conv.go", `package reporting

func conv(store anyStore) {
	store.Delete(nil, domain.Collection("trainerclientnotes"), "id")
}
`)

	findings, err := scan(dir, defaultAllow)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if findings[0].collection != "trainerclientnotes" {
		t.Errorf("collection = %q, want trainerclientnotes", findings[0].collection)
	}
}

func TestScanSkipsTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "internal/reporting/report_test.go", `package reporting

func helper(store anyStore) {
	store.Insert(nil, "weeklycheckins", nil)
}
`)

	findings, err := scan(dir, defaultAllow)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("findings = %d, want 0", len(findings))
	}
}
