package models

// TagType is one of the six fixed metadata categories an asset can be
// classified under. The catalog is immutable reference data.
type TagType string

const (
	TagTypeIndustry        TagType = "Industry"
	TagTypeCapability      TagType = "Capability"
	TagTypeRegion          TagType = "Region"
	TagTypeDeliverableType TagType = "DeliverableType"
	TagTypeAssetType       TagType = "AssetType"
	TagTypeAccessLevel     TagType = "AccessLevel"
)

// RequiredTagTypes is the fixed set of categories that must all be attached
// before a draft may be submitted for review.
var RequiredTagTypes = []TagType{
	TagTypeIndustry,
	TagTypeCapability,
	TagTypeRegion,
	TagTypeDeliverableType,
	TagTypeAssetType,
	TagTypeAccessLevel,
}

// MetadataTag represents one admissible value within a category.
type MetadataTag struct {
	ID    int64   `json:"id"`
	Type  TagType `json:"tag_type"`
	Value string  `json:"tag_value"`
}

// MissingTagTypes returns the required categories not present in attached,
// in the canonical category order. An empty result means the asset's
// metadata is complete. Pure function, no I/O.
func MissingTagTypes(attached []TagType) []TagType {
	present := make(map[TagType]bool, len(attached))
	for _, t := range attached {
		present[t] = true
	}

	var missing []TagType
	for _, required := range RequiredTagTypes {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	return missing
}
