// Package atlas holds the static reference data for the quiz: Spain's named
// geographic features, loaded from dataset files on disk. The atlas is
// read-only after loading.
package atlas

import "github.com/geoespana/geoquiz/internal/geo"

// LocationType tags a location with its geographic feature kind.
type LocationType string

const (
	TypeCity          LocationType = "city"
	TypeRegion        LocationType = "region"
	TypeProvince      LocationType = "province"
	TypeMunicipality  LocationType = "municipality"
	TypeRiver         LocationType = "river"
	TypeMountain      LocationType = "mountain"
	TypeMountainRange LocationType = "mountain-range"
	TypeLake          LocationType = "lake"
	TypeIsland        LocationType = "island"
	TypeCape          LocationType = "cape"
	TypeCoastline     LocationType = "coastline"
)

// Category groups locations and questions into the ten fixed quiz classes.
type Category string

const (
	CategoryRegions        Category = "autonomous-regions"
	CategoryProvinces      Category = "provinces"
	CategoryCities         Category = "cities"
	CategoryMunicipalities Category = "municipalities"
	CategoryRivers         Category = "rivers"
	CategoryMountainRanges Category = "mountain-ranges"
	CategoryMountains      Category = "mountains"
	CategoryLakes          Category = "lakes"
	CategoryIslands        Category = "islands"
	CategoryCoastlines     Category = "coastlines"
)

// Categories returns all quiz categories in display order.
func Categories() []Category {
	return []Category{
		CategoryRegions,
		CategoryProvinces,
		CategoryCities,
		CategoryMunicipalities,
		CategoryRivers,
		CategoryMountainRanges,
		CategoryMountains,
		CategoryLakes,
		CategoryIslands,
		CategoryCoastlines,
	}
}

// Metadata carries optional facts about a location, used for hints and
// display only.
type Metadata struct {
	Population  int     `json:"population,omitempty" yaml:"population,omitempty"`
	Elevation   float64 `json:"elevation,omitempty" yaml:"elevation,omitempty"`
	Length      float64 `json:"length,omitempty" yaml:"length,omitempty"`
	Area        float64 `json:"area,omitempty" yaml:"area,omitempty"`
	HighestPeak string  `json:"highestPeak,omitempty" yaml:"highest_peak,omitempty"`
}

// Location is one named geographic entity. Coordinates are [longitude,
// latitude]. Region and Province reference parent location IDs.
type Location struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	NameES      string       `json:"nameEs" yaml:"name_es"`
	Type        LocationType `json:"type" yaml:"type"`
	Coordinates geo.Point    `json:"coordinates" yaml:"coordinates,flow"`
	Region      string       `json:"region,omitempty" yaml:"region,omitempty"`
	Province    string       `json:"province,omitempty" yaml:"province,omitempty"`
	Metadata    *Metadata    `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Aliases     []string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// CategoryOf maps a location to its quiz category. Unrecognized types count
// as cities.
func CategoryOf(loc Location) Category {
	switch loc.Type {
	case TypeRegion:
		return CategoryRegions
	case TypeProvince:
		return CategoryProvinces
	case TypeCity:
		return CategoryCities
	case TypeMunicipality:
		return CategoryMunicipalities
	case TypeRiver:
		return CategoryRivers
	case TypeMountainRange:
		return CategoryMountainRanges
	case TypeMountain:
		return CategoryMountains
	case TypeLake:
		return CategoryLakes
	case TypeIsland:
		return CategoryIslands
	case TypeCoastline:
		return CategoryCoastlines
	default:
		return CategoryCities
	}
}
