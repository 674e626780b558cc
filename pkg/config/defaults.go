package config

import "time"

// Default returns the built-in policy. Config files and environment
// variables override individual fields.
func Default() *Policy {
	return &Policy{
		Months: DefaultMonthNames(),
		Vocab: Vocabulary{
			Positions: []string{
				"Operator", "Technician", "Team Lead", "Supervisor",
				"Engineer", "Manager", "Trainer", "Administrator",
			},
			TeamSynonyms: map[string]string{
				"assembly a":  "Assembly-A",
				"assembly-a":  "Assembly-A",
				"assembly b":  "Assembly-B",
				"assembly-b":  "Assembly-B",
				"qa":          "Quality",
				"quality ctl": "Quality",
				"maint":       "Maintenance",
			},
		},
		Tenure: Tenure{
			EarlyDays:          defaultEarlyTenureDays,
			PostAssignmentDays: defaultPostAssignmentDays,
			LongTermDays:       defaultLongTermDays,
		},
		Tiers: TierPolicy{
			PlatinumDays: defaultTierPlatinumDays,
			GoldDays:     defaultTierGoldDays,
			SilverDays:   defaultTierSilverDays,
			BronzeDays:   defaultTierBronzeDays,
		},
		Risk: RiskPolicy{
			AttendanceFloor:  defaultRiskAttendanceFloor,
			AttendanceWeight: defaultRiskAttendanceWeight,
			TrainingFloor:    defaultRiskTrainingFloor,
			TrainingWeight:   defaultRiskTrainingWeight,
			NegativeFeedback: defaultRiskNegativeFeedback,
			NeutralFeedback:  defaultRiskNeutralFeedback,
			PerUnauthorized:  defaultRiskPerUnauthorized,
		},
	}
}

// DefaultMonthNames returns the English month-name table, including the
// common three-letter abbreviations.
func DefaultMonthNames() MonthNames {
	names := MonthNames{
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
	}

	abbrevs := MonthNames{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "jun": time.June, "jul": time.July,
		"aug": time.August, "sep": time.September, "sept": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	}

	for token, month := range abbrevs {
		names[token] = month
	}

	return names
}
