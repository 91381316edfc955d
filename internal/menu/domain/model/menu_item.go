package model

import (
	"time"
)

// ItemType selects the embed provider that renders a menu item.
// The set is owned by the presentation layer; the persistence core treats it as opaque.
type ItemType string

const (
	ItemTypeCopilot ItemType = "copilot"
	ItemTypePowerBI ItemType = "powerbi"
)

// CreatedAtLayout is the timestamp format used for CreatedAt (ISO 8601, millisecond precision, UTC)
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// DefaultCreator is attributed to the seeded items
const DefaultCreator = "admin@admin.com"

// MenuItem is one entry of the portal menu. The whole collection is persisted as a unit.
type MenuItem struct {
	ID        string            `json:"id" validate:"required"`
	Name      string            `json:"name" validate:"required"`
	Icon      string            `json:"icon"`
	Type      ItemType          `json:"type" validate:"required"`
	Config    map[string]string `json:"config" validate:"required"`
	Order     int               `json:"order"`
	CreatedAt string            `json:"createdAt"`
	CreatedBy string            `json:"createdBy"`
}

// Clone returns a copy of the item that does not share its Config map
func (m MenuItem) Clone() MenuItem {
	if m.Config != nil {
		config := make(map[string]string, len(m.Config))
		for k, v := range m.Config {
			config[k] = v
		}
		m.Config = config
	}
	return m
}

// CloneMenuItems deep-copies a collection
func CloneMenuItems(items []MenuItem) []MenuItem {
	if items == nil {
		return nil
	}
	out := make([]MenuItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// NewMenuItem carries the caller-supplied fields of an item being added.
// ID and CreatedAt are assigned when the item is appended to the collection.
type NewMenuItem struct {
	Name      string            `json:"name"`
	Icon      string            `json:"icon"`
	Type      ItemType          `json:"type"`
	Config    map[string]string `json:"config"`
	Order     int               `json:"order"`
	CreatedBy string            `json:"createdBy"`
}

// MenuItemPatch is a shallow partial update. Nil fields keep the existing value.
type MenuItemPatch struct {
	ID        *string           `json:"id,omitempty"`
	Name      *string           `json:"name,omitempty"`
	Icon      *string           `json:"icon,omitempty"`
	Type      *ItemType         `json:"type,omitempty"`
	Config    map[string]string `json:"config,omitempty"`
	Order     *int              `json:"order,omitempty"`
	CreatedAt *string           `json:"createdAt,omitempty"`
	CreatedBy *string           `json:"createdBy,omitempty"`
}

// Apply merges the patch over item. Config is replaced as a whole, not merged key by key.
func (p MenuItemPatch) Apply(item MenuItem) MenuItem {
	out := item.Clone()
	if p.ID != nil {
		out.ID = *p.ID
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Icon != nil {
		out.Icon = *p.Icon
	}
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Config != nil {
		out.Config = MenuItem{Config: p.Config}.Clone().Config
	}
	if p.Order != nil {
		out.Order = *p.Order
	}
	if p.CreatedAt != nil {
		out.CreatedAt = *p.CreatedAt
	}
	if p.CreatedBy != nil {
		out.CreatedBy = *p.CreatedBy
	}
	return out
}

// FormatCreatedAt renders t in the CreatedAt layout
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// DefaultMenuItems returns the compiled-in seed collection stamped with now.
func DefaultMenuItems(now time.Time) []MenuItem {
	createdAt := FormatCreatedAt(now)
	return []MenuItem{
		{
			ID:   "demo-copilot",
			Name: "Support Assistant",
			Icon: "MessageSquare",
			Type: ItemTypeCopilot,
			Config: map[string]string{
				"embedUrl": "https://copilotstudio.microsoft.com/environments/Default-xxxx",
			},
			Order:     0,
			CreatedAt: createdAt,
			CreatedBy: DefaultCreator,
		},
		{
			ID:   "demo-powerbi",
			Name: "Sales Dashboard",
			Icon: "BarChart3",
			Type: ItemTypePowerBI,
			Config: map[string]string{
				"clientId":     "your-client-id",
				"clientSecret": "your-client-secret",
				"tenantId":     "your-tenant-id",
				"workspaceId":  "your-workspace-id",
				"reportId":     "your-report-id",
			},
			Order:     1,
			CreatedAt: createdAt,
			CreatedBy: DefaultCreator,
		},
	}
}
