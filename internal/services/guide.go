package services

import (
	"math/rand"

	"fyugp-assistant/internal/models"
)

const (
	AppTitle       = "FYUGP Assistant"
	AppSubtitle    = "Ask from your notes, open useful websites, or ask any doubt"
	WelcomeMessage = "Welcome to FYUGP Assistant! Ask your questions or upload a PDF to begin."
	HelpText       = "Use the quick links to open the university websites, ask your doubts in the message box, " +
		"or upload a notes PDF and ask questions from it."
)

var studyTips = []string{
	"Tip: Keep questions short and specific for better matches.",
	"Tip: You can upload any notes PDF and ask questions from it!",
	"Tip: Review your notes weekly to boost memory retention.",
}

var quickLinks = []models.QuickLink{
	{Label: "Notes Site", URL: "https://thunderous-sunflower-7230f3.netlify.app/", Icon: "notes"},
	{Label: "University Site", URL: "https://keralauniversity.ac.in/", Icon: "university"},
	{Label: "Course Site", URL: "https://slcm.keralauniversity.ac.in/", Icon: "course"},
	{Label: "College Site", URL: "https://casmvk.kerala.gov.in/", Icon: "college"},
}

func QuickLinks() []models.QuickLink {
	out := make([]models.QuickLink, len(quickLinks))
	copy(out, quickLinks)
	return out
}

func Help() models.HelpResponse {
	return models.HelpResponse{
		Title:    AppTitle,
		Subtitle: AppSubtitle,
		Help:     HelpText,
		Tip:      studyTips[rand.Intn(len(studyTips))],
	}
}
