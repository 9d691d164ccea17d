package services

import "fyugp-assistant/internal/models"

// defaultRules is checked top to bottom; the first trigger contained in the
// lower-cased question wins. Triggers are plain substrings, so "vc" also
// matches inside longer words.
var defaultRules = []models.AnswerRule{
	{
		Trigger:  "vc",
		Response: "The Vice Chancellor of Kerala University is Prof. Dr. Mohanan Kunnummal (as of 2025).",
	},
	{
		Trigger: "fyugp",
		Response: "FYUGP = Four Year Undergraduate Programme under NEP 2020. " +
			"It includes flexible exits, skill credits, and multidisciplinary options.",
	},
	{
		Trigger: "who is aju",
		Response: "Aju is a passionate and creative student with a strong interest in building useful and innovative digital tools. " +
			"Aju lived in Eravankara. Follow him on Instagram: @aaram_thamburan__. " +
			"He is now studying in the CAS MAVELIKARA in the BSc Computer Science. " +
			"Always eager to learn, Aju enjoys turning ideas into real projects, especially web apps and educational tools that help others. " +
			"With a focus on simplicity and accessibility, Aju combines technical skills and thoughtful design to make meaningful contributions " +
			"in the field of education and technology. Whether it's creating chatbots, websites for sharing college resources, or Android apps like 'Attendix', " +
			"Aju shows both dedication and curiosity in every project. The FYUGP Assistant is a smart chatbot interface designed and developed by Aju " +
			"to help students easily access semester-wise notes, model papers, and important university links through one intelligent and interactive platform.",
		Link: &models.Link{
			Label: "@aaram_thamburan__",
			URL:   "https://www.instagram.com/aaram_thamburan__?igsh=MTJqangxaXhwYTlhaA==",
		},
	},
}

// DefaultRules returns a copy of the built-in rule table.
func DefaultRules() []models.AnswerRule {
	out := make([]models.AnswerRule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
