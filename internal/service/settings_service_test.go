package service

import (
	"context"
	"errors"
	"testing"
)

func TestSettingsServiceCachesReads(t *testing.T) {
	store := newFakeSettingsStore(map[string]string{TaxPercentKey: "12"})
	svc := NewSettingsService(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		value, err := svc.Value(ctx, TaxPercentKey)
		if err != nil {
			t.Fatalf("Value: %v", err)
		}
		if value != "12" {
			t.Fatalf("value = %q, want 12", value)
		}
	}
	if store.getCalls != 1 {
		t.Errorf("store reads = %d, want 1 (cache must serve repeats)", store.getCalls)
	}
}

func TestSettingsServiceWriteThrough(t *testing.T) {
	store := newFakeSettingsStore(map[string]string{TaxPercentKey: "12"})
	svc := NewSettingsService(store)
	ctx := context.Background()

	if err := svc.SetValue(ctx, TaxPercentKey, "15", nil); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	pct, err := svc.TaxPercent(ctx)
	if err != nil {
		t.Fatalf("TaxPercent: %v", err)
	}
	if pct.String() != "15" {
		t.Errorf("tax percent = %s, want 15", pct)
	}
	if store.values[TaxPercentKey] != "15" {
		t.Error("store must hold the new value")
	}
}

func TestSettingsServiceFailedWriteNotCached(t *testing.T) {
	store := newFakeSettingsStore(map[string]string{TaxPercentKey: "12"})
	store.setErr = errors.New("db down")
	svc := NewSettingsService(store)
	ctx := context.Background()

	if err := svc.SetValue(ctx, TaxPercentKey, "15", nil); err == nil {
		t.Fatal("expected write error")
	}
	value, err := svc.Value(ctx, TaxPercentKey)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value != "12" {
		t.Errorf("value = %q, want the old 12 after a failed write", value)
	}
}

func TestTaxPercentMissingSetting(t *testing.T) {
	svc := NewSettingsService(newFakeSettingsStore(nil))
	if _, err := svc.TaxPercent(context.Background()); err == nil {
		t.Fatal("expected error for missing tax setting")
	}
}

func TestTaxPercentUnparsableSetting(t *testing.T) {
	svc := NewSettingsService(newFakeSettingsStore(map[string]string{TaxPercentKey: "twelve"}))
	if _, err := svc.TaxPercent(context.Background()); err == nil {
		t.Fatal("expected error for unparsable tax setting")
	}
}
