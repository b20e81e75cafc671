package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSettingsService(t *testing.T) settingsdomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&settingsdomain.Setting{}); err != nil {
		t.Fatal(err)
	}

	return NewService(ServiceParam{DB: db, Log: zap.NewNop()})
}

func TestGetReturnsDefaultForUnwrittenKey(t *testing.T) {
	svc := setupSettingsService(t)

	setting, err := svc.Get(context.Background(), settingsdomain.KeyRetailPricePer500ML)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if setting.Value != "45.0" {
		t.Fatalf("expected default 45.0, got %q", setting.Value)
	}
}

func TestGetUnknownKey(t *testing.T) {
	svc := setupSettingsService(t)

	_, err := svc.Get(context.Background(), "nonsense")
	if !errors.Is(err, settingsdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutOverridesDefault(t *testing.T) {
	svc := setupSettingsService(t)
	ctx := context.Background()

	if _, err := svc.Put(ctx, settingsdomain.KeyRetailPricePer500ML, "50"); err != nil {
		t.Fatalf("put: %v", err)
	}

	value, err := svc.Float(ctx, settingsdomain.KeyRetailPricePer500ML)
	if err != nil {
		t.Fatalf("float: %v", err)
	}
	if value != 50 {
		t.Fatalf("expected 50, got %v", value)
	}

	// Second write must update in place, not duplicate the row.
	if _, err := svc.Put(ctx, settingsdomain.KeyRetailPricePer500ML, "55"); err != nil {
		t.Fatalf("second put: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one stored row, got %d", len(list))
	}
	if list[0].Value != "55" {
		t.Fatalf("expected 55, got %q", list[0].Value)
	}
}

func TestPutRejectsEmptyValue(t *testing.T) {
	svc := setupSettingsService(t)

	if _, err := svc.Put(context.Background(), settingsdomain.KeyInitialDeviceCost, "  "); !errors.Is(err, settingsdomain.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if _, err := svc.Put(context.Background(), "", "1"); !errors.Is(err, settingsdomain.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestFloatFallsBackOnCorruptValue(t *testing.T) {
	svc := setupSettingsService(t)
	ctx := context.Background()

	if _, err := svc.Put(ctx, settingsdomain.KeyDefaultPushes1L, "not-a-number"); err != nil {
		t.Fatalf("put: %v", err)
	}

	value, err := svc.Int(ctx, settingsdomain.KeyDefaultPushes1L)
	if err != nil {
		t.Fatalf("int: %v", err)
	}
	if value != 4 {
		t.Fatalf("expected default 4, got %d", value)
	}
}
