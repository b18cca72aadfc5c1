package geo

import (
	"math"
	"strings"
	"testing"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	points := []Point{
		{0, 0},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{89.9999, 179.9999},
	}
	for _, p := range points {
		if d := Distance(p.Latitude, p.Longitude, p.Latitude, p.Longitude); d != 0 {
			t.Errorf("Distance(%v, %v, same) = %v, want 0", p.Latitude, p.Longitude, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{0, 0, 0, 1},
		{51.5074, -0.1278, 48.8566, 2.3522},
		{7.449681, 125.780084, 7.5, 125.8},
		{-45.0, -170.0, 45.0, 170.0},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance not symmetric: %v vs %v for %v", ab, ba, p)
		}
	}
}

func TestDistanceKnownPoints(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tolerance              float64
	}{
		{"one degree on the equator", 0, 0, 0, 1, 111.19, 0.1},
		{"london to paris", 51.5074, -0.1278, 48.8566, 2.3522, 343.5, 1},
		{"new york to los angeles", 40.7128, -74.0060, 34.0522, -118.2437, 3936, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Distance() = %v, want %v (±%v)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceNearIdenticalPointsStaysInDomain(t *testing.T) {
	// Floating-point error can push the acos argument above 1 here; without
	// clamping this returns NaN.
	d := Distance(7.449681, 125.780084, 7.449681, 125.780084+1e-13)
	if math.IsNaN(d) {
		t.Fatal("Distance returned NaN for near-identical points")
	}
	if d > 0.001 {
		t.Errorf("Distance = %v, want near 0", d)
	}
}

func TestHaversineSQLColumnsOnly(t *testing.T) {
	expr := Haversine{
		Lat1: Col("r.pickup_latitude"),
		Lng1: Col("r.pickup_longitude"),
		Lat2: Col("r.dropoff_latitude"),
		Lng2: Col("r.dropoff_longitude"),
	}
	fragment, args, next := expr.SQL(1)

	if len(args) != 0 {
		t.Errorf("args = %v, want none for column-only expression", args)
	}
	if next != 1 {
		t.Errorf("next = %d, want 1", next)
	}
	want := "(6371 * acos(LEAST(GREATEST(" +
		"cos(radians(r.pickup_latitude)) * cos(radians(r.dropoff_latitude)) * " +
		"cos(radians(r.dropoff_longitude) - radians(r.pickup_longitude)) + " +
		"sin(radians(r.pickup_latitude)) * sin(radians(r.dropoff_latitude))" +
		", -1), 1)))"
	if fragment != want {
		t.Errorf("fragment = %q, want %q", fragment, want)
	}
}

func TestHaversineSQLWithValues(t *testing.T) {
	expr := Haversine{
		Lat1: Val(7.449681),
		Lng1: Val(125.780084),
		Lat2: Col("r.pickup_latitude"),
		Lng2: Col("r.pickup_longitude"),
	}
	fragment, args, next := expr.SQL(3)

	if len(args) != 2 {
		t.Fatalf("args = %v, want 2 bound values", args)
	}
	if args[0] != 7.449681 || args[1] != 125.780084 {
		t.Errorf("args = %v, want [7.449681 125.780084]", args)
	}
	if next != 5 {
		t.Errorf("next = %d, want 5", next)
	}
	for _, placeholder := range []string{"$3", "$4"} {
		if !strings.Contains(fragment, placeholder) {
			t.Errorf("fragment %q missing placeholder %s", fragment, placeholder)
		}
	}
	if strings.Contains(fragment, "$5") {
		t.Errorf("fragment %q uses placeholder beyond bound args", fragment)
	}
}

func TestHaversineEvalMatchesDistance(t *testing.T) {
	row := map[string]float64{
		"pickup_latitude":  48.8566,
		"pickup_longitude": 2.3522,
	}
	expr := Haversine{
		Lat1: Val(51.5074),
		Lng1: Val(-0.1278),
		Lat2: Col("pickup_latitude"),
		Lng2: Col("pickup_longitude"),
	}
	got := expr.Eval(func(column string) float64 { return row[column] })
	want := Distance(51.5074, -0.1278, 48.8566, 2.3522)
	if got != want {
		t.Errorf("Eval() = %v, want %v", got, want)
	}
}
