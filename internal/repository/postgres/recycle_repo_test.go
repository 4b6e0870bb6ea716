package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regtrack/internal/domain"
)

func TestChildGuard(t *testing.T) {
	tests := []struct {
		name     string
		entity   domain.EntityType
		liveOnly bool
		want     string
	}{
		{
			name:     "product purge blocked by live registrations",
			entity:   domain.EntityProduct,
			liveOnly: true,
			want:     " AND NOT EXISTS (SELECT 1 FROM registrations c WHERE c.product_id = products.id AND c.deleted_at IS NULL)",
		},
		{
			name:   "product sweep waits for every registration",
			entity: domain.EntityProduct,
			want:   " AND NOT EXISTS (SELECT 1 FROM registrations c WHERE c.product_id = products.id)",
		},
		{
			name:     "registration checks renewals and variations",
			entity:   domain.EntityRegistration,
			liveOnly: true,
			want: " AND NOT EXISTS (SELECT 1 FROM renewals c WHERE c.registration_id = registrations.id AND c.deleted_at IS NULL)" +
				" AND NOT EXISTS (SELECT 1 FROM variations c WHERE c.registration_id = registrations.id AND c.deleted_at IS NULL)",
		},
		{
			name:   "leaf has no guard",
			entity: domain.EntityRenewal,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, childGuard(recycleSources[tt.entity], tt.liveOnly))
		})
	}
}

// Every binned entity must be reachable from products through children, or a
// product delete would leave part of its tree live.
func TestRecycleSources_TreeCoversEveryEntity(t *testing.T) {
	seen := map[domain.EntityType]bool{}
	var walk func(domain.EntityType)
	walk = func(e domain.EntityType) {
		require.False(t, seen[e], "cycle at %s", e)
		seen[e] = true
		for _, child := range recycleSources[e].children {
			_, ok := recycleSources[child.entity]
			require.True(t, ok, "unknown child %s", child.entity)
			assert.NotEmpty(t, recycleSources[child.entity].parent, "%s has no parent check", child.entity)
			walk(child.entity)
		}
	}
	walk(domain.EntityProduct)

	for _, e := range recycleListOrder {
		assert.True(t, seen[e], "%s not under products", e)
	}
}

func TestRecycleSources_SweepOrderPutsChildrenFirst(t *testing.T) {
	pos := map[domain.EntityType]int{}
	for i, e := range purgeOrder {
		pos[e] = i
	}
	for parent, src := range recycleSources {
		for _, child := range src.children {
			assert.Less(t, pos[child.entity], pos[parent], "%s must be swept before %s", child.entity, parent)
		}
	}
}
