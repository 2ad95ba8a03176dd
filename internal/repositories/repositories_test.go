package repositories

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/anonto42/skill-exchange/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type capturedInsert struct {
	sql  string
	vars []interface{}
}

// dryRunDB builds INSERT statements without a server. Nothing executes, so
// every insert reports zero rows affected like a conflicting one would.
func dryRunDB(t *testing.T) (*gorm.DB, *capturedInsert) {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=skillx dbname=skillx sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	captured := &capturedInsert{}
	err = db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		captured.sql = tx.Statement.SQL.String()
		captured.vars = tx.Statement.Vars
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return db, captured
}

func TestMatchInsert_ConflictOnPairKeyIsDuplicate(t *testing.T) {
	db, captured := dryRunDB(t)

	_, err := NewPostgresMatchRepository(db).Insert(context.Background(), "b", "a", models.MatchStatusPending)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Insert err = %v, want ErrDuplicate", err)
	}

	if !strings.Contains(captured.sql, `ON CONFLICT ("pair_key") DO NOTHING`) {
		t.Errorf("sql = %s", captured.sql)
	}
	found := false
	for _, v := range captured.vars {
		if v == "a|b" {
			found = true
		}
	}
	if !found {
		t.Errorf("vars = %v, want canonical pair key a|b", captured.vars)
	}
}

func TestNotificationCreate_ConflictIsDuplicate(t *testing.T) {
	db, captured := dryRunDB(t)

	matchID := uint(3)
	n := &models.Notification{UserID: "b", Type: models.NotificationTypeMatchRequest, MatchID: &matchID}
	err := NewPostgresNotificationRepository(db).Create(context.Background(), n)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Create err = %v, want ErrDuplicate", err)
	}
	if !strings.Contains(captured.sql, `INSERT INTO "notifications"`) || !strings.Contains(captured.sql, "ON CONFLICT DO NOTHING") {
		t.Errorf("sql = %s", captured.sql)
	}
}

func TestUniqueIndexes(t *testing.T) {
	cases := []struct {
		model  interface{}
		index  string
		where  string
		fields []string
	}{
		{&models.Match{}, "idx_matches_pair_key", "", []string{"pair_key"}},
		{&models.Notification{}, "idx_notifications_match_request", "type = 'match_request'", []string{"user_id", "match_id"}},
	}
	for _, tc := range cases {
		t.Run(tc.index, func(t *testing.T) {
			sch, err := schema.Parse(tc.model, &sync.Map{}, schema.NamingStrategy{})
			if err != nil {
				t.Fatalf("schema.Parse: %v", err)
			}
			idx := sch.LookIndex(tc.index)
			if idx == nil {
				t.Fatalf("index %s not declared", tc.index)
			}
			if idx.Class != "UNIQUE" {
				t.Errorf("class = %q, want UNIQUE", idx.Class)
			}
			if idx.Where != tc.where {
				t.Errorf("where = %q, want %q", idx.Where, tc.where)
			}
			var fields []string
			for _, f := range idx.Fields {
				fields = append(fields, f.DBName)
			}
			if strings.Join(fields, ",") != strings.Join(tc.fields, ",") {
				t.Errorf("fields = %v, want %v", fields, tc.fields)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	other := errors.New("connection reset")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"gorm not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"mongo not found", mongo.ErrNoDocuments, ErrNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, ErrDuplicate},
		{"mongo duplicate", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, ErrDuplicate},
		{"other", other, other},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := translate(tc.in); !errors.Is(got, tc.want) {
				t.Errorf("translate(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
