package service_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"garage/internal/auth"
	"garage/internal/domain"
	"garage/internal/dto"
	"garage/internal/service"
	"garage/internal/store"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Car{}, &domain.CarLink{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return store.New(db)
}

type testEnv struct {
	store  *store.Store
	blobs  *memBlobStore
	hasher *service.CredentialHasher
	images *service.ImageService
	links  *service.LinkService
	garage *service.GarageService
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st := newTestStore(t)
	blobs := newMemBlobStore()
	hasher := service.NewCredentialHasher()
	images := service.NewImageService(st, blobs, "http://localhost:8080")
	signer := auth.NewSigner(auth.TokenConfig{
		Issuer:     "garage-test",
		Audience:   "garage-app",
		AccessTTL:  time.Hour,
		SigningKey: []byte("test-signing-key"),
	})
	return &testEnv{
		store:  st,
		blobs:  blobs,
		hasher: hasher,
		images: images,
		links:  service.NewLinkService(st, hasher, images),
		garage: service.NewGarageService(st, images),
		auth:   service.NewAuthService(st, hasher, signer),
	}
}

func (e *testEnv) newUser(t *testing.T) domain.UserID {
	t.Helper()

	hash, err := e.hasher.Hash("password-123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	usr := &domain.User{
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: hash,
	}
	if err := e.store.Users().Create(context.Background(), usr); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return usr.ID
}

const testPIN = "1234"

func carClaim(car domain.Car) dto.LinkCarRequest {
	return dto.LinkCarRequest{LicensePlate: car.LicensePlate, PinCode: testPIN}
}

func (e *testEnv) createCar(t *testing.T, ownerID domain.UserID, plate string) domain.Car {
	t.Helper()

	res, err := e.links.CreateCar(context.Background(), ownerID, dto.CreateCarRequest{
		LicensePlate: plate,
		PinCode:      testPIN,
	})
	if err != nil {
		t.Fatalf("create car %s: %v", plate, err)
	}
	return res.Car.Car
}

func (e *testEnv) mustLink(t *testing.T, userID domain.UserID, car domain.Car) {
	t.Helper()

	if _, err := e.links.LinkCar(context.Background(), userID, carClaim(car)); err != nil {
		t.Fatalf("link %s: %v", car.LicensePlate, err)
	}
}

// memBlobStore is an in-memory storage.BlobStore for exercising the image
// lifecycle without a filesystem.
type memBlobStore struct {
	blobs       map[string][]byte
	failDelete  bool
	failResize  bool
	resizeCalls int
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (m *memBlobStore) Exists(ref string) bool {
	_, ok := m.blobs[ref]
	return ok
}

func (m *memBlobStore) Put(ref string, data []byte) error {
	m.blobs[ref] = data
	return nil
}

func (m *memBlobStore) Delete(ref string) bool {
	if m.failDelete {
		return false
	}
	if _, ok := m.blobs[ref]; !ok {
		return false
	}
	delete(m.blobs, ref)
	return true
}

func (m *memBlobStore) Resize(ref string, width, height, quality int) error {
	m.resizeCalls++
	if m.failResize {
		return fmt.Errorf("resize unavailable")
	}
	return nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func testPNGDataURI(t *testing.T) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t))
}
