package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"garage/internal/domain"

	"github.com/google/uuid"
)

func TestSetPrimaryMovesFlag(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	first := env.createCar(t, userID, "PRI1111")
	owner := env.newUser(t)
	second := env.createCar(t, owner, "PRI2222")
	env.mustLink(t, userID, second)

	if _, err := env.garage.SetPrimary(context.Background(), userID, second.ID); err != nil {
		t.Fatalf("set primary: %v", err)
	}

	primary, err := env.store.Links().GetPrimary(context.Background(), userID)
	if err != nil {
		t.Fatalf("primary lookup: %v", err)
	}
	if primary.CarID != second.ID {
		t.Fatalf("primary is %s, want %s", primary.CarID, second.ID)
	}
	old, err := env.store.Links().Get(context.Background(), userID, first.ID)
	if err != nil {
		t.Fatalf("old link lookup: %v", err)
	}
	if old.IsPrimary {
		t.Fatalf("previous primary not demoted")
	}
}

func TestSetPrimaryIdempotent(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	car := env.createCar(t, userID, "PRI3333")
	env.mustLink(t, userID, env.createCar(t, env.newUser(t), "PRI4444"))

	for i := 0; i < 2; i++ {
		if _, err := env.garage.SetPrimary(context.Background(), userID, car.ID); err != nil {
			t.Fatalf("set primary (call %d): %v", i+1, err)
		}
	}
	primary, err := env.store.Links().GetPrimary(context.Background(), userID)
	if err != nil {
		t.Fatalf("primary lookup: %v", err)
	}
	if primary.CarID != car.ID {
		t.Fatalf("primary drifted to %s", primary.CarID)
	}
}

func TestSetPrimaryNotLinked(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	env.createCar(t, userID, "PRI5555")
	foreign := env.createCar(t, env.newUser(t), "PRI6666")

	if _, err := env.garage.SetPrimary(context.Background(), userID, foreign.ID); !errors.Is(err, domain.ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
	if _, err := env.garage.SetPrimary(context.Background(), userID, domain.CarID(uuid.New())); !errors.Is(err, domain.ErrNotLinked) {
		t.Fatalf("unknown car: expected ErrNotLinked, got %v", err)
	}
}

func TestSetLastUsedMirrorsPointer(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	first := env.createCar(t, userID, "MRU1111")
	second := env.createCar(t, env.newUser(t), "MRU2222")
	env.mustLink(t, userID, second)

	if _, err := env.garage.SetLastUsed(context.Background(), userID, second.ID); err != nil {
		t.Fatalf("set last used: %v", err)
	}

	usr, err := env.store.Users().GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	if usr.LastUsedCarID == nil || *usr.LastUsedCarID != second.ID {
		t.Fatalf("pointer not mirrored, got %v", usr.LastUsedCarID)
	}

	link, err := env.store.Links().Get(context.Background(), userID, second.ID)
	if err != nil {
		t.Fatalf("link lookup: %v", err)
	}
	firstLink, err := env.store.Links().Get(context.Background(), userID, first.ID)
	if err != nil {
		t.Fatalf("first link lookup: %v", err)
	}
	if link.LastUsedAt == nil || firstLink.LastUsedAt == nil {
		t.Fatalf("missing last-used stamps")
	}
	if !link.LastUsedAt.After(*firstLink.LastUsedAt) {
		t.Fatalf("stamp not advanced past the first car")
	}
}

func TestSetLastUsedNotLinked(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	env.createCar(t, userID, "MRU3333")

	if _, err := env.garage.SetLastUsed(context.Background(), userID, domain.CarID(uuid.New())); !errors.Is(err, domain.ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
}

func TestListUserCarsOrdering(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	a := env.createCar(t, userID, "LST1111")
	b := env.createCar(t, env.newUser(t), "LST2222")
	c := env.createCar(t, env.newUser(t), "LST3333")
	env.mustLink(t, userID, b)
	env.mustLink(t, userID, c)

	// Explicit stamps pin the recency order: b newest, then a, then c.
	base := time.Now().UTC().Add(-time.Hour)
	stamp := func(carID domain.CarID, offset time.Duration) {
		if err := env.store.Links().StampLastUsed(context.Background(), userID, carID, base.Add(offset)); err != nil {
			t.Fatalf("stamp %s: %v", carID, err)
		}
	}
	stamp(c.ID, 0)
	stamp(a.ID, time.Minute)
	stamp(b.ID, 2*time.Minute)

	resp, err := env.garage.ListUserCars(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Cars) != 3 {
		t.Fatalf("expected 3 cars, got %d", len(resp.Cars))
	}
	got := []domain.CarID{resp.Cars[0].ID, resp.Cars[1].ID, resp.Cars[2].ID}
	want := []domain.CarID{b.ID, a.ID, c.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if resp.LastUsedCar == nil || resp.LastUsedCar.ID != b.ID {
		t.Fatalf("last-used head wrong")
	}
	if resp.PrimaryCar == nil || resp.PrimaryCar.ID != a.ID {
		t.Fatalf("primary should still be the first-linked car")
	}
}

func TestListUserCarsEmpty(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)

	resp, err := env.garage.ListUserCars(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Cars) != 0 || resp.PrimaryCar != nil || resp.LastUsedCar != nil {
		t.Fatalf("expected empty garage, got %+v", resp)
	}
}

func TestUnlinkNonPrimaryKeepsPrimary(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	first := env.createCar(t, userID, "UNL1111")
	second := env.createCar(t, env.newUser(t), "UNL2222")
	env.mustLink(t, userID, second)

	if err := env.garage.Unlink(context.Background(), userID, second.ID); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	primary, err := env.store.Links().GetPrimary(context.Background(), userID)
	if err != nil {
		t.Fatalf("primary lookup: %v", err)
	}
	if primary.CarID != first.ID {
		t.Fatalf("primary changed on non-primary unlink")
	}
	if _, err := env.store.Links().Get(context.Background(), userID, second.ID); err == nil {
		t.Fatalf("link still present")
	}
}

func TestUnlinkSoleCarRefused(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	car := env.createCar(t, userID, "UNL3333")

	if err := env.garage.Unlink(context.Background(), userID, car.ID); !errors.Is(err, domain.ErrSoleCar) {
		t.Fatalf("expected ErrSoleCar, got %v", err)
	}
	if _, err := env.store.Links().Get(context.Background(), userID, car.ID); err != nil {
		t.Fatalf("sole link must survive: %v", err)
	}
}

func TestUnlinkNotLinked(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	env.createCar(t, userID, "UNL4444")

	if err := env.garage.Unlink(context.Background(), userID, domain.CarID(uuid.New())); !errors.Is(err, domain.ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
}

func TestUnlinkPrimaryPromotesMostRecent(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	primary := env.createCar(t, userID, "UNL5555")
	older := env.createCar(t, env.newUser(t), "UNL6666")
	newer := env.createCar(t, env.newUser(t), "UNL7777")
	env.mustLink(t, userID, older)
	env.mustLink(t, userID, newer)

	base := time.Now().UTC().Add(-time.Hour)
	for i, carID := range []domain.CarID{older.ID, newer.ID, primary.ID} {
		if err := env.store.Links().StampLastUsed(context.Background(), userID, carID, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("stamp: %v", err)
		}
	}

	if err := env.garage.Unlink(context.Background(), userID, primary.ID); err != nil {
		t.Fatalf("unlink primary: %v", err)
	}

	elected, err := env.store.Links().GetPrimary(context.Background(), userID)
	if err != nil {
		t.Fatalf("primary lookup: %v", err)
	}
	if elected.CarID != newer.ID {
		t.Fatalf("elected %s, want most recently used %s", elected.CarID, newer.ID)
	}
}

func TestUnlinkNullsStaleLastUsedPointer(t *testing.T) {
	env := newTestEnv(t)
	userID := env.newUser(t)
	env.createCar(t, userID, "UNL8888")
	second := env.createCar(t, env.newUser(t), "UNL9999")
	env.mustLink(t, userID, second)

	if _, err := env.garage.SetLastUsed(context.Background(), userID, second.ID); err != nil {
		t.Fatalf("set last used: %v", err)
	}
	if err := env.garage.Unlink(context.Background(), userID, second.ID); err != nil {
		t.Fatalf("unlink: %v", err)
	}

	usr, err := env.store.Users().GetByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	if usr.LastUsedCarID != nil {
		t.Fatalf("stale last-used pointer kept: %v", *usr.LastUsedCarID)
	}
}
