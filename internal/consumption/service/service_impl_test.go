package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	consumptiondomain "github.com/fizzlog/fizzlog/internal/consumption/domain"
	cylinderdomain "github.com/fizzlog/fizzlog/internal/cylinder/domain"
	settingsdomain "github.com/fizzlog/fizzlog/internal/settings/domain"
	"github.com/fizzlog/fizzlog/pkg/dateonly"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type cylinderStub struct {
	cylinders map[snowflake.ID]*cylinderdomain.Cylinder
}

func (s *cylinderStub) Create(ctx context.Context, req cylinderdomain.CreateRequest) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) Update(ctx context.Context, req cylinderdomain.UpdateRequest) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) Delete(ctx context.Context, id snowflake.ID) error {
	return errors.New("not implemented")
}

func (s *cylinderStub) SetActive(ctx context.Context, id snowflake.ID) (*cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) List(ctx context.Context) ([]cylinderdomain.Cylinder, error) {
	return nil, errors.New("not implemented")
}

func (s *cylinderStub) GetByID(ctx context.Context, id snowflake.ID) (*cylinderdomain.Cylinder, error) {
	cyl, ok := s.cylinders[id]
	if !ok {
		return nil, cylinderdomain.ErrNotFound
	}
	return cyl, nil
}

func (s *cylinderStub) GetByNumber(ctx context.Context, number int) (*cylinderdomain.Cylinder, error) {
	for _, cyl := range s.cylinders {
		if cyl.Number == number {
			return cyl, nil
		}
	}
	return nil, cylinderdomain.ErrNotFound
}

func (s *cylinderStub) Active(ctx context.Context) (*cylinderdomain.Cylinder, error) {
	for _, cyl := range s.cylinders {
		if cyl.IsActive {
			return cyl, nil
		}
	}
	return nil, nil
}

func (s *cylinderStub) UsageSummary(ctx context.Context, id snowflake.ID) (*cylinderdomain.UsageSummary, error) {
	return nil, errors.New("not implemented")
}

type settingsStub struct {
	values map[string]string
}

func (s *settingsStub) List(ctx context.Context) ([]settingsdomain.Setting, error) {
	return nil, errors.New("not implemented")
}

func (s *settingsStub) Get(ctx context.Context, key string) (*settingsdomain.Setting, error) {
	value, ok := s.values[key]
	if !ok {
		value, ok = settingsdomain.Defaults[key]
	}
	if !ok {
		return nil, settingsdomain.ErrNotFound
	}
	return &settingsdomain.Setting{Key: key, Value: value}, nil
}

func (s *settingsStub) Put(ctx context.Context, key, value string) (*settingsdomain.Setting, error) {
	return nil, errors.New("not implemented")
}

func (s *settingsStub) Float(ctx context.Context, key string) (float64, error) {
	row, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(row.Value, 64)
}

func (s *settingsStub) Int(ctx context.Context, key string) (int, error) {
	value, err := s.Float(ctx, key)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func setupConsumptionService(t *testing.T, cylinders *cylinderStub, settings *settingsStub) (consumptiondomain.Service, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&consumptiondomain.ConsumptionLog{}); err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}

	svc := NewService(ServiceParam{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		CylinderSvc: cylinders,
		SettingsSvc: settings,
	})
	return svc, node
}

func testCylinder(node *snowflake.Node, number int, cost float64, maxPushes int) *cylinderdomain.Cylinder {
	return &cylinderdomain.Cylinder{
		ID:        node.Generate(),
		Number:    number,
		Cost:      cost,
		MaxPushes: maxPushes,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func TestCreateLogDerivesFrozenCosts(t *testing.T) {
	node, _ := snowflake.NewNode(2)
	cyl := testCylinder(node, 1, 1500, 150)
	cylinders := &cylinderStub{cylinders: map[snowflake.ID]*cylinderdomain.Cylinder{cyl.ID: cyl}}
	svc, _ := setupConsumptionService(t, cylinders, &settingsStub{})

	pushes := 8
	entry, err := svc.Create(context.Background(), consumptiondomain.CreateRequest{
		Date:        dateonly.New(2024, time.March, 15),
		BottleSize:  consumptiondomain.BottleOneLiter,
		BottleCount: 2,
		CylinderID:  cyl.ID,
		CO2Pushes:   &pushes,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if entry.VolumeML != 1680 {
		t.Fatalf("expected volume 1680, got %v", entry.VolumeML)
	}
	if entry.CO2Cost != 80 {
		t.Fatalf("expected co2 cost 80, got %v", entry.CO2Cost)
	}
	if entry.TotalCost != entry.CO2Cost {
		t.Fatalf("expected total cost %v, got %v", entry.CO2Cost, entry.TotalCost)
	}

	// Raising the cylinder price later must not rewrite the stored entry.
	cyl.Cost = 3000
	stored, err := svc.Get(context.Background(), entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.CO2Cost != 80 {
		t.Fatalf("stored cost must stay frozen at 80, got %v", stored.CO2Cost)
	}
}

func TestCreateLogDefaultsPushesFromSettings(t *testing.T) {
	node, _ := snowflake.NewNode(2)
	cyl := testCylinder(node, 1, 1500, 150)
	cylinders := &cylinderStub{cylinders: map[snowflake.ID]*cylinderdomain.Cylinder{cyl.ID: cyl}}
	settings := &settingsStub{values: map[string]string{settingsdomain.KeyDefaultPushes1L: "4"}}
	svc, _ := setupConsumptionService(t, cylinders, settings)

	entry, err := svc.Create(context.Background(), consumptiondomain.CreateRequest{
		Date:        dateonly.New(2024, time.March, 15),
		BottleSize:  consumptiondomain.BottleOneLiter,
		BottleCount: 3,
		CylinderID:  cyl.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.CO2Pushes != 12 {
		t.Fatalf("expected 3 bottles x 4 default pushes = 12, got %d", entry.CO2Pushes)
	}
}

func TestCreateLogValidation(t *testing.T) {
	node, _ := snowflake.NewNode(2)
	cyl := testCylinder(node, 1, 1500, 150)
	cylinders := &cylinderStub{cylinders: map[snowflake.ID]*cylinderdomain.Cylinder{cyl.ID: cyl}}
	svc, _ := setupConsumptionService(t, cylinders, &settingsStub{})
	ctx := context.Background()

	valid := consumptiondomain.CreateRequest{
		Date:        dateonly.New(2024, time.March, 15),
		BottleSize:  consumptiondomain.BottleHalfLiter,
		BottleCount: 1,
		CylinderID:  cyl.ID,
	}

	req := valid
	req.Date = dateonly.Date{}
	if _, err := svc.Create(ctx, req); !errors.Is(err, consumptiondomain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	req = valid
	req.BottleSize = "2L"
	if _, err := svc.Create(ctx, req); !errors.Is(err, consumptiondomain.ErrInvalidBottleSize) {
		t.Fatalf("expected ErrInvalidBottleSize, got %v", err)
	}

	req = valid
	req.BottleCount = 0
	if _, err := svc.Create(ctx, req); !errors.Is(err, consumptiondomain.ErrInvalidBottleCount) {
		t.Fatalf("expected ErrInvalidBottleCount, got %v", err)
	}

	req = valid
	negative := -1
	req.CO2Pushes = &negative
	if _, err := svc.Create(ctx, req); !errors.Is(err, consumptiondomain.ErrInvalidPushes) {
		t.Fatalf("expected ErrInvalidPushes, got %v", err)
	}

	req = valid
	req.CylinderID = node.Generate()
	if _, err := svc.Create(ctx, req); !errors.Is(err, cylinderdomain.ErrNotFound) {
		t.Fatalf("expected cylinder ErrNotFound, got %v", err)
	}
}

func TestUpdateLogWithoutChangesKeepsValues(t *testing.T) {
	node, _ := snowflake.NewNode(2)
	cyl := testCylinder(node, 1, 1500, 150)
	cylinders := &cylinderStub{cylinders: map[snowflake.ID]*cylinderdomain.Cylinder{cyl.ID: cyl}}
	svc, _ := setupConsumptionService(t, cylinders, &settingsStub{})
	ctx := context.Background()

	pushes := 8
	entry, err := svc.Create(ctx, consumptiondomain.CreateRequest{
		Date:        dateonly.New(2024, time.March, 15),
		BottleSize:  consumptiondomain.BottleOneLiter,
		BottleCount: 2,
		CylinderID:  cyl.ID,
		CO2Pushes:   &pushes,
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, consumptiondomain.UpdateRequest{ID: entry.ID})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CO2Pushes != entry.CO2Pushes ||
		updated.VolumeML != entry.VolumeML ||
		updated.CO2Cost != entry.CO2Cost {
		t.Fatalf("no-op update changed the entry: %+v vs %+v", updated, entry)
	}
}

func TestUpdateLogRecomputesDefaultPushesOnBottleChange(t *testing.T) {
	node, _ := snowflake.NewNode(2)
	cyl := testCylinder(node, 1, 1500, 150)
	cylinders := &cylinderStub{cylinders: map[snowflake.ID]*cylinderdomain.Cylinder{cyl.ID: cyl}}
	settings := &settingsStub{values: map[string]string{settingsdomain.KeyDefaultPushes1L: "4"}}
	svc, _ := setupConsumptionService(t, cylinders, settings)
	ctx := context.Background()

	pushes := 9
	entry, err := svc.Create(ctx, consumptiondomain.CreateRequest{
		Date:        dateonly.New(2024, time.March, 15),
		BottleSize:  consumptiondomain.BottleOneLiter,
		BottleCount: 2,
		CylinderID:  cyl.ID,
		CO2Pushes:   &pushes,
	})
	if err != nil {
		t.Fatal(err)
	}

	count := 3
	updated, err := svc.Update(ctx, consumptiondomain.UpdateRequest{ID: entry.ID, BottleCount: &count})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CO2Pushes != 12 {
		t.Fatalf("expected recomputed 12 pushes, got %d", updated.CO2Pushes)
	}
	if updated.VolumeML != 2520 {
		t.Fatalf("expected volume 2520, got %v", updated.VolumeML)
	}
}

func TestDeleteLogNotFound(t *testing.T) {
	svc, genID := setupConsumptionService(t, &cylinderStub{}, &settingsStub{})

	err := svc.Delete(context.Background(), genID.Generate())
	if !errors.Is(err, consumptiondomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListLogsFiltersAndOrders(t *testing.T) {
	node, _ := snowflake.NewNode(2)
	cyl := testCylinder(node, 1, 1500, 150)
	cylinders := &cylinderStub{cylinders: map[snowflake.ID]*cylinderdomain.Cylinder{cyl.ID: cyl}}
	svc, _ := setupConsumptionService(t, cylinders, &settingsStub{})
	ctx := context.Background()

	pushes := 4
	for _, day := range []int{10, 1, 5} {
		_, err := svc.Create(ctx, consumptiondomain.CreateRequest{
			Date:        dateonly.New(2024, time.April, day),
			BottleSize:  consumptiondomain.BottleOneLiter,
			BottleCount: 1,
			CylinderID:  cyl.ID,
			CO2Pushes:   &pushes,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := svc.List(ctx, consumptiondomain.ListFilter{
		From: dateonly.New(2024, time.April, 2),
		To:   dateonly.New(2024, time.April, 30),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(entries))
	}
	if entries[0].Date.String() != "2024-04-10" || entries[1].Date.String() != "2024-04-05" {
		t.Fatalf("expected date-descending order, got %s then %s", entries[0].Date, entries[1].Date)
	}
}
