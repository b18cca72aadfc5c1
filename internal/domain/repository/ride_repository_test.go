package repository

import (
	"strings"
	"testing"

	"github.com/chrisdomaub-dev/rider-app/internal/common/geo"
	"github.com/chrisdomaub-dev/rider-app/internal/domain/model"
)

func TestBuildListQueryPlain(t *testing.T) {
	q := RideQuery{Limit: 10, Offset: 0}
	listSQL, listArgs, countSQL, countArgs := buildListQuery(q)

	if strings.Contains(listSQL, "AS distance") || strings.Contains(listSQL, "AS pickup_distance") {
		t.Errorf("unexpected annotation in %q", listSQL)
	}
	if !strings.Contains(listSQL, "ORDER BY r.id DESC") {
		t.Errorf("default ordering missing in %q", listSQL)
	}
	if !strings.Contains(listSQL, "LIMIT $1 OFFSET $2") {
		t.Errorf("pagination placeholders wrong in %q", listSQL)
	}
	if len(listArgs) != 2 || listArgs[0] != 10 || listArgs[1] != 0 {
		t.Errorf("listArgs = %v, want [10 0]", listArgs)
	}
	if strings.Contains(countSQL, "LIMIT") {
		t.Errorf("count query must not paginate: %q", countSQL)
	}
	if len(countArgs) != 0 {
		t.Errorf("countArgs = %v, want none", countArgs)
	}
}

func TestBuildListQueryWithDistance(t *testing.T) {
	q := RideQuery{Limit: 10, Offset: 0, WithDistance: true, Ordering: []string{"-distance"}}
	listSQL, listArgs, _, _ := buildListQuery(q)

	if !strings.Contains(listSQL, "AS distance") {
		t.Fatalf("distance annotation missing in %q", listSQL)
	}
	if !strings.Contains(listSQL, "ORDER BY distance DESC") {
		t.Errorf("expected ordering on the annotated column, got %q", listSQL)
	}
	// Column-only annotation binds nothing; pagination stays at $1/$2.
	if !strings.Contains(listSQL, "LIMIT $1 OFFSET $2") {
		t.Errorf("pagination placeholders wrong in %q", listSQL)
	}
	if len(listArgs) != 2 {
		t.Errorf("listArgs = %v, want pagination only", listArgs)
	}
}

func TestBuildListQueryWithPickupPoint(t *testing.T) {
	q := RideQuery{
		Limit:       10,
		Offset:      20,
		PickupPoint: &geo.Point{Latitude: 7.449681, Longitude: 125.780084},
		Ordering:    []string{"-pickup_distance"},
	}
	listSQL, listArgs, _, _ := buildListQuery(q)

	if !strings.Contains(listSQL, "AS pickup_distance") {
		t.Fatalf("pickup_distance annotation missing in %q", listSQL)
	}
	if !strings.Contains(listSQL, "ORDER BY pickup_distance DESC") {
		t.Errorf("expected ordering on pickup_distance, got %q", listSQL)
	}
	if !strings.Contains(listSQL, "LIMIT $3 OFFSET $4") {
		t.Errorf("pagination should follow the two bound coordinates: %q", listSQL)
	}
	want := []interface{}{7.449681, 125.780084, 10, 20}
	if len(listArgs) != len(want) {
		t.Fatalf("listArgs = %v, want %v", listArgs, want)
	}
	for i := range want {
		if listArgs[i] != want[i] {
			t.Errorf("listArgs[%d] = %v, want %v", i, listArgs[i], want[i])
		}
	}
}

func TestBuildListQueryFilters(t *testing.T) {
	q := RideQuery{
		Limit:        10,
		Offset:       0,
		Status:       model.StatusPending,
		Search:       "alice@example.com",
		WithDistance: true,
		PickupPoint:  &geo.Point{Latitude: 1, Longitude: 2},
	}
	listSQL, listArgs, countSQL, countArgs := buildListQuery(q)

	if !strings.Contains(listSQL, "r.status = $3") {
		t.Errorf("status condition misnumbered in %q", listSQL)
	}
	if !strings.Contains(listSQL, "ru.email ILIKE $4 OR du.email ILIKE $5") {
		t.Errorf("search condition misnumbered in %q", listSQL)
	}
	if !strings.Contains(listSQL, "LIMIT $6 OFFSET $7") {
		t.Errorf("pagination misnumbered in %q", listSQL)
	}
	if len(listArgs) != 7 {
		t.Errorf("listArgs = %v, want 7 values", listArgs)
	}
	if listArgs[2] != model.StatusPending || listArgs[3] != "%alice@example.com%" {
		t.Errorf("filter args wrong: %v", listArgs)
	}

	// Count renumbers from $1 since it carries no annotations.
	if !strings.Contains(countSQL, "r.status = $1") {
		t.Errorf("count status condition misnumbered in %q", countSQL)
	}
	if len(countArgs) != 3 {
		t.Errorf("countArgs = %v, want 3 values", countArgs)
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		q    RideQuery
		want string
	}{
		{"empty falls back", RideQuery{}, "r.id DESC"},
		{"unknown field dropped", RideQuery{Ordering: []string{"hacker; DROP TABLE rides"}}, "r.id DESC"},
		{"plain columns", RideQuery{Ordering: []string{"created_at", "-pickup_time"}}, "r.created_at ASC, r.pickup_time DESC"},
		{"distance without annotation dropped", RideQuery{Ordering: []string{"-distance", "status"}}, "r.status ASC"},
		{"distance with annotation kept", RideQuery{Ordering: []string{"-distance"}, WithDistance: true}, "distance DESC"},
		{"pickup_distance needs a point", RideQuery{Ordering: []string{"pickup_distance"}}, "r.id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orderClause(tt.q); got != tt.want {
				t.Errorf("orderClause() = %q, want %q", got, tt.want)
			}
		})
	}
}
