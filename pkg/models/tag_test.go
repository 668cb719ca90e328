package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingTagTypes_AllAttached(t *testing.T) {
	missing := MissingTagTypes(RequiredTagTypes)
	assert.Empty(t, missing)
}

func TestMissingTagTypes_NoneAttached(t *testing.T) {
	missing := MissingTagTypes(nil)
	assert.Equal(t, RequiredTagTypes, missing)
}

func TestMissingTagTypes_ReturnsCanonicalOrder(t *testing.T) {
	// Attach capability and access level, in reverse order; the result must
	// still follow category order.
	missing := MissingTagTypes([]TagType{TagTypeAccessLevel, TagTypeCapability})
	assert.Equal(t, []TagType{
		TagTypeIndustry,
		TagTypeRegion,
		TagTypeDeliverableType,
		TagTypeAssetType,
	}, missing)
}

func TestMissingTagTypes_DuplicatesDoNotSatisfyOtherCategories(t *testing.T) {
	missing := MissingTagTypes([]TagType{
		TagTypeIndustry, TagTypeIndustry, TagTypeIndustry,
	})
	assert.Len(t, missing, 5)
	assert.NotContains(t, missing, TagTypeIndustry)
}
