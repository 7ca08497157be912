package web

// Module is one dashboard section with its rollout checklist.
type Module struct {
	ID        string
	Title     string
	Summary   string
	Checklist []string
	Menu      []MenuItem
}

type MenuItem struct {
	Label    string
	Children []MenuItem
}

var modules = []Module{
	{
		ID:      "catalog",
		Title:   "Catalog",
		Summary: "Barcodes, prices, media and bulk import/export",
		Checklist: []string{
			"SKU list fields: SKU, multiple barcodes, category, package size, unit",
			"Price management: retail, member and fresh-produce overrides with effective windows",
			"Tax rate, brand, origin and shelf life are editable and searchable",
			"Media: up to 5 product images and one video stored in object storage",
			"Bulk CSV/Excel import and export with pre-import validation and diff preview",
			"SKU list offers search, import, export, edit and create actions",
		},
		Menu: []MenuItem{{Label: "Products", Children: []MenuItem{{Label: "New product"}}}},
	},
	{
		ID:      "inventory",
		Title:   "Inventory",
		Summary: "Stock ledger, counts, alerts and store transfers",
		Checklist: []string{
			"Ledger: receipts, returns, write-offs, count gains, transfers, sale deductions",
			"Stock counts: variance reconciliation and adjustment documents",
			"Available-to-sell: online computation plus pre-aggregated cache",
			"Alerts: low-stock thresholds and slow-mover warnings",
			"Stock query list with import and export",
			"Inter-store stock transfers",
		},
	},
	{
		ID:      "crm",
		Title:   "Members (CRM)",
		Summary: "Member profiles, points and compliance exports",
		Checklist: []string{
			"Profiles: phone, tags, blacklist and merge of duplicate or invalid records",
			"Points (optional): earn and burn rules",
			"Privacy: masked display and export requests",
			"Member tiers and tier discounts",
			"Member purchase history",
		},
	},
	{
		ID:      "orders",
		Title:   "Orders (OMS)",
		Summary: "Order status flow, after-sales and reconciliation",
		Checklist: []string{
			"Search and filter by time, store, channel, status, member and amount",
			"Status flow: CREATED, PAID, READY, HANDED_OVER/DELIVERED, CLOSED",
			"After-sales: refunds and voids with permission checks and optional second review",
			"Reconciliation: export totals by channel and payment method",
		},
	},
	{
		ID:      "marketing",
		Title:   "Marketing & BI",
		Summary: "Promotion rules and multi-dimensional reports",
		Checklist: []string{
			"Promotion rules: spend-and-save, discounts and coupons scoped by store, category or tier",
			"Reports: sales, basket size, UPT, estimated margin, top SKUs and hourly heatmaps",
			"Store and region pivots: store_id partitions with materialized views refreshed per minute",
		},
	},
	{
		ID:      "system",
		Title:   "System",
		Summary: "Users, permissions, jobs and audit log",
		Checklist: []string{
			"Users, roles, permissions, API keys and an audit log of who did what and when",
			"Jobs: imports, batch processing and scheduled refreshes",
			"Operator login and verification",
		},
	},
}

// resolveModule falls back to the first module for unknown ids.
func resolveModule(id string) string {
	for _, m := range modules {
		if m.ID == id {
			return id
		}
	}
	return modules[0].ID
}
