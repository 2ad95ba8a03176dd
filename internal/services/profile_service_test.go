package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/anonto42/skill-exchange/backend/internal/repositories"
	"github.com/anonto42/skill-exchange/backend/internal/services"
)

func TestGetProfile(t *testing.T) {
	f := newFixture(profile("a", "Ada", "Go", "Rust"))
	ctx := context.Background()

	p, err := f.profileS.GetProfile(ctx, "a")
	if err != nil || p.Name != "Ada" {
		t.Fatalf("GetProfile = %+v, %v", p, err)
	}
	if _, err := f.profileS.GetProfile(ctx, "ghost"); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("missing err = %v, want ErrNotFound", err)
	}

	f.profiles.getErr = errBoom
	if _, err := f.profileS.GetProfile(ctx, "a"); !errors.Is(err, services.ErrStorage) {
		t.Errorf("failure err = %v, want ErrStorage", err)
	}
}

func TestListProfiles(t *testing.T) {
	f := newFixture(
		profile("a", "Ada", "Go", "Rust"),
		profile("b", "Bob", "Rust", "Go"),
		profile("c", "Cy", "Zig", "C"),
	)
	ctx := context.Background()

	got, err := f.profileS.ListProfiles(ctx, repositories.ProfileFilter{ExcludeID: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"b", "c"}; !equalStrings(ids(got), want) {
		t.Errorf("exclude a = %v, want %v", ids(got), want)
	}

	got, err = f.profileS.ListProfiles(ctx, repositories.ProfileFilter{IDs: []string{"c", "a"}})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "c"}; !equalStrings(ids(got), want) {
		t.Errorf("ids filter = %v, want %v", ids(got), want)
	}
}

func TestSaveProfile_RequiresID(t *testing.T) {
	f := newFixture()
	p := profile("", "Nobody", "Go", "Rust")
	if _, _, err := f.profileS.SaveProfile(context.Background(), &p); !errors.Is(err, services.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSaveProfile_AutoMatchFailureSurfaces(t *testing.T) {
	f := newFixture(profile("b", "Bob", "Rust", "Go"))
	f.matches.insertErr = errBoom
	p := profile("a", "Ada", "Go", "Rust")

	if _, _, err := f.profileS.SaveProfile(context.Background(), &p); !errors.Is(err, services.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	if _, ok := f.profiles.rows["a"]; !ok {
		t.Error("profile should stay saved when auto-matching fails")
	}
}
