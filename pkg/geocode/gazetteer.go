package geocode

import (
	"math"
	"strings"

	"github.com/twpayne/go-geom"

	"github.com/agrosense/crop-advisor/internal/model"
)

// place is one gazetteer entry. Coordinates are stored as XY points
// (lon, lat) matching the convention of the geometry library.
type place struct {
	name   string
	region string
	point  *geom.Point
}

func newPlace(name, region string, lat, lon float64) place {
	return place{
		name:   name,
		region: region,
		point:  geom.NewPointFlat(geom.XY, []float64{lon, lat}),
	}
}

// gazetteer is the offline fallback: major agricultural districts and
// state capitals. Used when the live provider is unreachable.
var gazetteer = []place{
	newPlace("Delhi", "Delhi", 28.6139, 77.2090),
	newPlace("Mumbai", "Maharashtra", 19.0760, 72.8777),
	newPlace("Nagpur", "Maharashtra", 21.1458, 79.0882),
	newPlace("Pune", "Maharashtra", 18.5204, 73.8567),
	newPlace("Ludhiana", "Punjab", 30.9010, 75.8573),
	newPlace("Amritsar", "Punjab", 31.6340, 74.8723),
	newPlace("Karnal", "Haryana", 29.6857, 76.9905),
	newPlace("Hisar", "Haryana", 29.1492, 75.7217),
	newPlace("Lucknow", "Uttar Pradesh", 26.8467, 80.9462),
	newPlace("Kanpur", "Uttar Pradesh", 26.4499, 80.3319),
	newPlace("Varanasi", "Uttar Pradesh", 25.3176, 82.9739),
	newPlace("Patna", "Bihar", 25.5941, 85.1376),
	newPlace("Kolkata", "West Bengal", 22.5726, 88.3639),
	newPlace("Bhopal", "Madhya Pradesh", 23.2599, 77.4126),
	newPlace("Indore", "Madhya Pradesh", 22.7196, 75.8577),
	newPlace("Jaipur", "Rajasthan", 26.9124, 75.7873),
	newPlace("Jodhpur", "Rajasthan", 26.2389, 73.0243),
	newPlace("Ahmedabad", "Gujarat", 23.0225, 72.5714),
	newPlace("Rajkot", "Gujarat", 22.3039, 70.8022),
	newPlace("Hyderabad", "Telangana", 17.3850, 78.4867),
	newPlace("Warangal", "Telangana", 17.9689, 79.5941),
	newPlace("Vijayawada", "Andhra Pradesh", 16.5062, 80.6480),
	newPlace("Guntur", "Andhra Pradesh", 16.3067, 80.4365),
	newPlace("Bengaluru", "Karnataka", 12.9716, 77.5946),
	newPlace("Belagavi", "Karnataka", 15.8497, 74.4977),
	newPlace("Chennai", "Tamil Nadu", 13.0827, 80.2707),
	newPlace("Coimbatore", "Tamil Nadu", 11.0168, 76.9558),
	newPlace("Thanjavur", "Tamil Nadu", 10.7870, 79.1378),
	newPlace("Kochi", "Kerala", 9.9312, 76.2673),
	newPlace("Bhubaneswar", "Odisha", 20.2961, 85.8245),
	newPlace("Raipur", "Chhattisgarh", 21.2514, 81.6296),
	newPlace("Guwahati", "Assam", 26.1445, 91.7362),
	newPlace("Dehradun", "Uttarakhand", 30.3165, 78.0322),
	newPlace("Shimla", "Himachal Pradesh", 31.1048, 77.1734),
}

// gazetteerLookup matches a normalized query against gazetteer place and
// state names. Substring matches count, so "karnal mandi" finds Karnal.
func gazetteerLookup(query string) (model.Location, bool) {
	for _, p := range gazetteer {
		lower := strings.ToLower(p.name)
		if lower == query || strings.Contains(query, lower) || strings.Contains(lower, query) {
			return p.location(), true
		}
	}
	for _, p := range gazetteer {
		if strings.EqualFold(p.region, query) {
			return p.location(), true
		}
	}
	return model.Location{}, false
}

// NearestPlace returns the gazetteer entry closest to the coordinates,
// used to annotate a bare lat/lon with a region.
func NearestPlace(lat, lon float64) (name, region string) {
	best := -1
	bestDist := math.MaxFloat64
	for i, p := range gazetteer {
		d := haversineKM(lat, lon, p.point.Y(), p.point.X())
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return DefaultLocation.ResolvedName, DefaultLocation.Region
	}
	return gazetteer[best].name, gazetteer[best].region
}

func (p place) location() model.Location {
	return model.Location{
		Latitude:     p.point.Y(),
		Longitude:    p.point.X(),
		ResolvedName: p.name,
		Region:       p.region,
	}
}

// haversineKM is the great-circle distance between two coordinates.
func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKM = 6371.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}
