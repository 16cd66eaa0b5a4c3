package atlas

// datasetSchema validates JSON dataset documents before decoding. YAML files
// skip schema validation; the decoder's strictness is enough there.
const datasetSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["locations"],
  "properties": {
    "locations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "type", "coordinates"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "nameEs": {"type": "string"},
          "type": {
            "type": "string",
            "enum": [
              "city", "region", "province", "municipality", "river",
              "mountain", "mountain-range", "lake", "island", "cape",
              "coastline"
            ]
          },
          "coordinates": {
            "type": "array",
            "items": {"type": "number"},
            "minItems": 2,
            "maxItems": 2
          },
          "region": {"type": "string"},
          "province": {"type": "string"},
          "metadata": {"type": "object"},
          "aliases": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`
