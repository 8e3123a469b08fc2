package database

import (
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestDSNPinsSessionToUTC(t *testing.T) {
	got := dsn("app", "secret", "db.internal", "3306", "fitpassport")

	cfg, err := mysql.ParseDSN(got)
	if err != nil {
		t.Fatalf("driver rejected DSN %q: %v", got, err)
	}
	if !cfg.ParseTime {
		t.Error("parseTime not enabled")
	}
	if cfg.Loc == nil || cfg.Loc.String() != "UTC" {
		t.Errorf("loc = %v, want UTC", cfg.Loc)
	}
	// The session time zone must match the clock CURRENT_TIMESTAMP uses in
	// the column defaults and the updated_at triggers; otherwise an update
	// on a server ahead of UTC could move updated_at backwards.
	if tz := cfg.Params["time_zone"]; tz != "'+00:00'" {
		t.Errorf("time_zone param = %q, want '+00:00'", tz)
	}
}

func TestDSNOmitsPasswordSeparatorWhenEmpty(t *testing.T) {
	got := dsn("app", "", "localhost", "3306", "fitpassport")
	if strings.Contains(got, ":@") {
		t.Errorf("DSN %q carries an empty-password separator", got)
	}
	if _, err := mysql.ParseDSN(got); err != nil {
		t.Fatalf("driver rejected DSN %q: %v", got, err)
	}
}

// All updated_at maintenance must read one clock source.  Mixing
// UTC_TIMESTAMP in the triggers with CURRENT_TIMESTAMP in the column
// defaults lets the first update move updated_at backwards whenever the
// server time zone is ahead of UTC.
func TestTouchTriggersUseSessionClock(t *testing.T) {
	raw, err := migrationsFS.ReadFile("migrations/00002_touch_triggers.sql")
	if err != nil {
		t.Fatalf("read trigger migration: %v", err)
	}
	sql := string(raw)

	if strings.Contains(sql, "UTC_TIMESTAMP") {
		t.Error("trigger migration mixes UTC_TIMESTAMP with CURRENT_TIMESTAMP column defaults")
	}
	for _, table := range []string{"users", "fit_passports", "brands", "garments"} {
		want := "BEFORE UPDATE ON " + table
		if !strings.Contains(sql, want) {
			t.Errorf("no updated_at trigger declared for %s", table)
		}
	}
	if n := strings.Count(sql, "NEW.updated_at = CURRENT_TIMESTAMP"); n != 4 {
		t.Errorf("found %d CURRENT_TIMESTAMP trigger bodies, want 4", n)
	}
}
