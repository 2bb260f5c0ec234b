package models

// MetricDef describes one row of the daily pivot table: a display label,
// the record field backing it, and an optional category override for
// composite tables that blend two categories on one page. An empty Field
// marks a spacer row.
type MetricDef struct {
	Label          string
	Field          string
	SourceCategory string
}

// Spacer returns true for separator rows.
func (m MetricDef) Spacer() bool {
	return m.Field == ""
}

// FieldSpec maps a category's semantic roles onto its record fields.
// Consumed may list one or two fields (LPG sums two tanks, kerosene sums
// two shifts). Any empty role is simply unused by that category.
type FieldSpec struct {
	Consumed []string
	Activity string
	Delivery string
	Refill   string
	Active   string
	Idle     string
	Stock    string
	Entity   string
}

// CategoryConfig declares one consumable category: display metadata,
// the field mapping for aggregation, and the pivot rows.
type CategoryConfig struct {
	Name         string
	Description  string
	Unit         string
	DeliveryUnit string
	Spec         FieldSpec
	Metrics      []MetricDef
}

// DefaultPlant is the built-in plant used until a roster file is loaded.
const DefaultPlant = "GGPC - Gunma Gohkin"

// oilSpec covers the die-casting oils and greases that share the common
// Total_Consumed / Machine_Run / Remaining_Stock / Delivery field set.
var oilSpec = FieldSpec{
	Consumed: []string{"Total_Consumed"},
	Activity: "Machine_Run",
	Delivery: "Delivery",
	Refill:   "Refill",
	Stock:    "Remaining_Stock",
	Entity:   "Machine_Run",
}

func oilMetrics(unit, deliveryUnit string) []MetricDef {
	return []MetricDef{
		{Label: "Consumed " + unit, Field: "Total_Consumed"},
		{Label: "Stock " + unit, Field: "Remaining_Stock"},
		{Label: "Estimate in " + unit, Field: "Estimate"},
		{Label: "Machine Run", Field: "Machine_Run"},
		{Label: "Delivery " + unit + "/" + deliveryUnit, Field: "Delivery"},
	}
}

var categories = []CategoryConfig{
	{
		Name:         "EP-220",
		Description:  "Gear Oil",
		Unit:         "Liters",
		DeliveryUnit: "Pail",
		Spec: FieldSpec{
			Consumed: []string{"Total_Consumed_EP"},
			Activity: "Machine_Run",
			Delivery: "Delivery_EP",
			Refill:   "Refill_EP",
			Stock:    "Remaining_Stock_EP",
			Entity:   "Machine_Run",
		},
		Metrics: []MetricDef{
			{Label: "Total Consumed (Liters)", Field: "Total_Consumed_EP"},
			{Label: "Machine Run", Field: "Machine_Run"},
			{Label: "Remaining Stock (Liters)", Field: "Remaining_Stock_EP"},
			{Label: "Delivery (Pail)", Field: "Delivery_EP"},
			{Label: "Refill (Pail)", Field: "Refill_EP"},
			{Label: "Total Stock Pail", Field: "Total_Stock_EP_Pail"},
			{Label: "Total Stock Liters", Field: "Total_Stock_EP_Lit"},
		},
	},
	{
		Name:         "PL-1000",
		Description:  "Lubricating Oil",
		Unit:         "Liters",
		DeliveryUnit: "Pail",
		Spec: FieldSpec{
			Consumed: []string{"Total_Consumed_PL"},
			Activity: "Machine_Run_PL",
			Delivery: "Delivery_PL",
			Refill:   "Refill_PL",
			Stock:    "Remaining_Stock_PL",
			Entity:   "Machine_Run_PL",
		},
		Metrics: []MetricDef{
			{Label: "Total Consumed (Liters)", Field: "Total_Consumed_PL"},
			{Label: "Machine Run", Field: "Machine_Run_PL"},
			{Label: "Remaining Stock (Liters)", Field: "Remaining_Stock_PL"},
			{Label: "Delivery (Pail)", Field: "Delivery_PL"},
			{Label: "Refill (Pail)", Field: "Refill_PL"},
			{Label: "Total Stock Pail", Field: "Total_Stock_PL_Pail"},
			{Label: "Total Stock Liters", Field: "Total_Stock_PL_Lit"},
		},
	},
	{
		Name:         "SW220",
		Description:  "Hydraulic Oil",
		Unit:         "Liters",
		DeliveryUnit: "Drum",
		Spec:         oilSpec,
		Metrics:      oilMetrics("Liters", "Drum"),
	},
	{
		Name:         "GL63P",
		Description:  "Grease",
		Unit:         "Liters",
		DeliveryUnit: "Drum",
		Spec:         oilSpec,
		Metrics:      oilMetrics("Liters", "Drum"),
	},
	{
		Name:         "Die slick 240VX",
		Description:  "Die Lubricant",
		Unit:         "Liters",
		DeliveryUnit: "Pail",
		Spec:         oilSpec,
		Metrics:      oilMetrics("Liters", "Pail"),
	},
	{
		Name:         "Die-lube Antilot",
		Description:  "Mould Wax",
		Unit:         "Can",
		DeliveryUnit: "Can",
		Spec:         oilSpec,
		Metrics:      oilMetrics("Can", "Can"),
	},
	{
		Name:         "Flux powder",
		Description:  "Purifying Agent",
		Unit:         "kg",
		DeliveryUnit: "kg",
		Spec:         oilSpec,
		Metrics:      oilMetrics("kg", "kg"),
	},
	{
		Name:         "LPG Monitoring",
		Description:  "Melting Furnace LPG",
		Unit:         "%",
		DeliveryUnit: "Kg",
		Spec: FieldSpec{
			Consumed: []string{"Consumed_Tank1", "Consumed_Tank2"},
			Activity: "Machine_no_Operation",
			Delivery: "ND_Total",
			Active:   "Machine_no_Operation",
			Idle:     "Furnace_On",
			Entity:   "Furnace_On",
		},
		// Composite pivot: ingot rows come from the Ingot Used category
		// sharing the same dates.
		Metrics: []MetricDef{
			{Label: "Before Delivery: Tank 1", Field: "BD_Tank1"},
			{Label: "Before Delivery: Tank 2", Field: "BD_Tank2"},
			{},
			{Label: "Consumed %: Tank 1", Field: "Consumed_Tank1"},
			{Label: "Consumed %: Tank 2", Field: "Consumed_Tank2"},
			{},
			{Label: "Estimated in (Kg): Tank 1", Field: "Estimated_Tank1"},
			{Label: "Estimated in (Kg): Tank 2", Field: "Estimated_Tank2"},
			{Label: "Estimate Total", Field: "Estimate_Total"},
			{},
			{Label: "Ingot Used (pcs)", Field: "Ingot_Used", SourceCategory: "Ingot Used"},
			{Label: "Ingot Bundle", Field: "Ingot_Bundle", SourceCategory: "Ingot Used"},
			{},
			{Label: "Machine on Operation", Field: "Machine_no_Operation"},
			{Label: "Furnace On", Field: "Furnace_On"},
			{},
			{Label: "QTY Delivered (Kg): Tank 1", Field: "ND_Tank1"},
			{Label: "QTY Delivered (Kg): Tank 2", Field: "ND_Tank2"},
			{Label: "Total (Kg) Metering", Field: "ND_Total"},
			{},
			{Label: "Total (%): Tank 1 Delivery", Field: "TDT_Tank1"},
			{Label: "Total (%): Tank 2 Delivery", Field: "TDT_Tank2"},
		},
	},
	{
		Name:        "Ingot Used",
		Description: "Aluminium Ingot",
		Unit:        "pcs",
		Spec: FieldSpec{
			Consumed: []string{"Ingot_Used"},
			Activity: "Furnace_On",
			Entity:   "Furnace_On",
		},
		Metrics: []MetricDef{
			{Label: "Ingot Used (pcs)", Field: "Ingot_Used"},
			{Label: "Ingot Bundle", Field: "Ingot_Bundle"},
		},
	},
	{
		Name:         "KEROSENE",
		Description:  "Press Machine Kerosene",
		Unit:         "Liters",
		DeliveryUnit: "Liters",
		Spec: FieldSpec{
			Consumed: []string{"Shift"},
			Activity: "Press_Machine_No",
			Delivery: "Delivery_Qty",
			Stock:    "Total_Remaining_Stock_Kerosene",
			Entity:   "Press_Machine_No",
		},
		Metrics: []MetricDef{
			{Label: "Stock", Field: "Total_Remaining_Stock_Kerosene"},
			{Label: "Shift/Use", Field: "Shift"},
			{Label: "Press M#", Field: "Press_Machine_No"},
			{Label: "Remarks", Field: "Remarks_Kerosene"},
		},
	},
	{
		Name:         "Tellus C32",
		Description:  "Hydraulic Oil Refill",
		Unit:         "Liters",
		DeliveryUnit: "Liters",
		Spec: FieldSpec{
			Consumed: []string{"Refill_Qty"},
			Activity: "Machine_Refilled",
			Refill:   "Refill_Qty",
			Stock:    "Remaining_Qty",
			Entity:   "Machine_Refilled",
		},
		Metrics: []MetricDef{
			{Label: "Time", Field: "Time_Refill"},
			{Label: "Refill Qty", Field: "Refill_Qty"},
			{Label: "Remaining Qty", Field: "Remaining_Qty"},
			{Label: "Refilled By", Field: "Refill_by"},
			{Label: "Machine", Field: "Machine_Refilled"},
			{Label: "Remarks", Field: "Remarks"},
		},
	},
	{
		Name:         "Tellus C46",
		Description:  "Hydraulic Oil Refill",
		Unit:         "Liters",
		DeliveryUnit: "Liters",
		Spec: FieldSpec{
			Consumed: []string{"Refill_Qty"},
			Activity: "Machine_Refilled",
			Refill:   "Refill_Qty",
			Stock:    "Remaining_Qty",
			Entity:   "Machine_Refilled",
		},
		Metrics: []MetricDef{
			{Label: "Time", Field: "Time_Refill"},
			{Label: "Refill Qty", Field: "Refill_Qty"},
			{Label: "Remaining Qty", Field: "Remaining_Qty"},
			{Label: "Refilled By", Field: "Refill_by"},
			{Label: "Machine", Field: "Machine_Refilled"},
			{Label: "Remarks", Field: "Remarks"},
		},
	},
}

// Categories returns the static category registry.
func Categories() []CategoryConfig {
	out := make([]CategoryConfig, len(categories))
	copy(out, categories)
	return out
}

// CategoryNames returns the registry's category names in declared order.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names
}

// CategoryByName looks up a category config by exact name.
func CategoryByName(name string) (CategoryConfig, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryConfig{}, false
}
