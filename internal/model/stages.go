package model

// Sheet names and column names are an external contract with the
// consolidated procurement workbook; they are matched exactly.
var (
	createdOnLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02",
		"01/02/2006 15:04:05",
		"01/02/2006",
	}
	releaseDateLayouts = []string{"2006/01/02"}

	sameDayLabels = [4]string{"Same day (0-1)", "1-2 days", "2-3 days", "3+ days"}
)

// DefaultStageTable returns the hard-coded configuration of the five stages.
func DefaultStageTable() StageTable {
	return StageTable{
		PRCreate: StageConfig{
			Key:   "pr_create",
			Name:  "PR Create",
			Sheet: "PR Create",
			Breakdowns: []BreakdownConfig{
				{Key: "by_type", Column: "Req Type"},
				{Key: "by_purchase_group", Column: "PGr", Limit: 10},
				{Key: "by_month", Column: "Month"},
				{Key: "by_status", Column: "S"},
			},
		},
		POCreate: StageConfig{
			Key:   "po_create",
			Name:  "PO Create",
			Sheet: "PO Create",
			Breakdowns: []BreakdownConfig{
				{Key: "by_type", Column: "Type Description"},
				{Key: "by_purchase_group", Column: "PGr", Limit: 10},
			},
		},
		POA: StageConfig{
			Key:   "poa",
			Name:  "POA",
			Sheet: "Order Acknowledgements 1 April ",
			Breakdowns: []BreakdownConfig{
				{Key: "by_processing_type", Column: "BOT/MANUAL/SERVICE PROVIDER"},
				{Key: "by_month", Column: "Month"},
			},
			TAT: TATConfig{
				Mode:   TATDirect,
				Column: "Turn around in Days",
			},
			DistributionLabels: [4]string{"0-1 days", "1-2 days", "2-3 days", "3+ days"},
			ExportFile:         "uipath_poa_data.csv",
		},
		Release31: StageConfig{
			Key:   "release_31",
			Name:  "Release 31",
			Sheet: "PO Release 31",
			TAT: TATConfig{
				Mode:          TATComputed,
				StartColumn:   "Created On",
				EndColumn:     "Date(31)",
				StartLayouts:  createdOnLayouts,
				EndLayouts:    releaseDateLayouts,
				DerivedColumn: "TAT_31",
			},
			DistributionLabels: sameDayLabels,
			ExportFile:         "uipath_r31_data.csv",
		},
		Release37: StageConfig{
			Key:   "release_37",
			Name:  "Release 37",
			Sheet: "PO Release 37",
			Breakdowns: []BreakdownConfig{
				{Key: "by_purchase_group", Column: "Purchasing Group", Limit: 10},
			},
			TAT: TATConfig{
				Mode:          TATComputed,
				StartColumn:   "Created On",
				EndColumn:     "Date(37)",
				StartLayouts:  createdOnLayouts,
				EndLayouts:    releaseDateLayouts,
				DerivedColumn: "TAT_37",
			},
			DistributionLabels: sameDayLabels,
			ExportFile:         "uipath_r37_data.csv",
		},
		ChannelBreakdown: "by_processing_type",
		BotLabel:         "BOT",
		ManualLabel:      "MANUAL",
		HighTATDays:      2,
	}
}
