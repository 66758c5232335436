package types

// JSONMap stores loosely structured JSON objects (option bags, event data)
// in jsonb columns via GORM's json serializer.
type JSONMap map[string]any
