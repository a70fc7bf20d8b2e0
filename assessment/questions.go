package assessment

// Questions is the standard questionnaire.
var Questions = []Question{
	{
		ID:      "age",
		Text:    "What is your age?",
		Kind:    Select,
		Options: []string{"18-25", "26-35", "36-45", "46-55", "55+"},
	},
	{
		ID:      "primary_concern",
		Text:    "What is your primary health concern?",
		Kind:    Select,
		Options: []string{"PCOS symptoms", "Perimenopause symptoms", "General wellness", "Hormonal imbalance", "Other"},
	},
	{
		ID:   "symptoms",
		Text: "Which symptoms are you experiencing? (Select all that apply)",
		Kind: Multiple,
		Options: []string{
			"Irregular periods",
			"Weight gain",
			"Acne",
			"Hair loss",
			"Mood swings",
			"Hot flashes",
			"Sleep issues",
			"Low energy",
			"Digestive issues",
		},
	},
	{
		ID:      "lifestyle",
		Text:    "How would you describe your current lifestyle?",
		Kind:    Select,
		Options: []string{"Very active", "Moderately active", "Sedentary", "Varies greatly"},
	},
	{
		ID:      "diet",
		Text:    "What best describes your diet?",
		Kind:    Select,
		Options: []string{"Vegetarian", "Vegan", "Omnivore", "Keto/Low-carb", "Mediterranean", "No specific diet"},
	},
	{
		ID:      "supplements",
		Text:    "Are you currently taking any supplements or medications?",
		Kind:    Select,
		Options: []string{"Yes, supplements only", "Yes, medications only", "Yes, both", "No, neither"},
	},
	{
		ID:   "goals",
		Text: "What are your main wellness goals? (Select all that apply)",
		Kind: Multiple,
		Options: []string{
			"Regulate menstrual cycle",
			"Manage weight",
			"Improve energy levels",
			"Better sleep",
			"Clearer skin",
			"Mood stability",
			"Overall wellness",
		},
	},
}

// Pathways.
var (
	PCOSPathway = Recommendation{
		Pathway:     "PCOS Management",
		Products:    []string{"PCOS Balance Formula", "Hormone Support Blend"},
		Description: "Based on your responses, we recommend our PCOS-focused pathway with targeted supplements and lifestyle guidance.",
	}
	PerimenopausePathway = Recommendation{
		Pathway:     "Perimenopause Support",
		Products:    []string{"Perimenopause Support", "Mood & Energy Blend"},
		Description: "Your responses suggest our Perimenopause pathway would be most beneficial for managing your transition.",
	}
	WellnessPathway = Recommendation{
		Pathway:     "General Wellness",
		Products:    []string{"Wellness Starter Kit", "Daily Vitality Blend"},
		Description: "We recommend starting with our comprehensive wellness approach to address your overall health goals.",
	}
)
