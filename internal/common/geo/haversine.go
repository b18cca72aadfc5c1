package geo

import (
	"fmt"
	"math"
)

const EarthRadiusKm = 6371.0

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance returns the great-circle distance in kilometers between two
// coordinate pairs given in degrees. The acos argument is clamped to [-1, 1]
// because floating-point error can push it slightly out of domain for
// identical or antipodal points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	arg := math.Cos(radians(lat1))*math.Cos(radians(lat2))*
		math.Cos(radians(lng2)-radians(lng1)) +
		math.Sin(radians(lat1))*math.Sin(radians(lat2))
	return EarthRadiusKm * math.Acos(clamp(arg))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Term is one argument of a Haversine expression: either a column reference
// resolved by the query engine or a literal value bound as a parameter.
type Term struct {
	column string
	value  float64
}

func Col(name string) Term {
	return Term{column: name}
}

func Val(v float64) Term {
	return Term{value: v}
}

func (t Term) render(args *[]interface{}, next *int) string {
	if t.column != "" {
		return t.column
	}
	*args = append(*args, t.value)
	placeholder := fmt.Sprintf("$%d", *next)
	*next++
	return placeholder
}

// Haversine is a distance expression over any combination of column and
// literal terms. It renders to a Postgres fragment for push-down so that
// filtering and ordering by the computed distance happen inside the database.
type Haversine struct {
	Lat1, Lng1, Lat2, Lng2 Term
}

// SQL renders the expression with parameter placeholders numbered from
// argIndex. It returns the fragment, the bound arguments and the next free
// placeholder index. The formula matches Distance exactly, including the
// domain clamp.
func (h Haversine) SQL(argIndex int) (string, []interface{}, int) {
	var args []interface{}
	next := argIndex

	lat1 := h.Lat1.render(&args, &next)
	lng1 := h.Lng1.render(&args, &next)
	lat2 := h.Lat2.render(&args, &next)
	lng2 := h.Lng2.render(&args, &next)

	fragment := fmt.Sprintf(
		"(%g * acos(LEAST(GREATEST("+
			"cos(radians(%s)) * cos(radians(%s)) * "+
			"cos(radians(%s) - radians(%s)) + "+
			"sin(radians(%s)) * sin(radians(%s))"+
			", -1), 1)))",
		EarthRadiusKm, lat1, lat2, lng2, lng1, lat1, lat2,
	)
	return fragment, args, next
}

// Eval computes the expression in memory when push-down is not available.
// Column terms are resolved through lookup; literal terms use their value.
func (h Haversine) Eval(lookup func(column string) float64) float64 {
	resolve := func(t Term) float64 {
		if t.column != "" {
			return lookup(t.column)
		}
		return t.value
	}
	return Distance(resolve(h.Lat1), resolve(h.Lng1), resolve(h.Lat2), resolve(h.Lng2))
}
