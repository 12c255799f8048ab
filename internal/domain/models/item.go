package models

// CatalogItem is one master-data row. ItemCode is the primary key; every
// other field is descriptive and optional.
type CatalogItem struct {
	ItemCode    string `json:"item_code"`
	Description string `json:"description,omitempty"`
	PackSize    string `json:"pack_size,omitempty"`
	PackType    string `json:"pack_type,omitempty"`
	Unit        string `json:"unit,omitempty"`
	HSNCode     string `json:"hsn_code,omitempty"`
	PlantName   string `json:"plant_name,omitempty"`
	LeadTime    string `json:"lead_time,omitempty"`
	MaxLevel    string `json:"max_level,omitempty"`
	Season      string `json:"season,omitempty"`
	Brand       string `json:"brand,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}
