package email

// Support holds the fixed contact block printed under every notice.
type Support struct {
	IssuesPrompt   string `json:"issuesPrompt"`
	IssuesURL      string `json:"issuesURL"`
	SelfHelpPrompt string `json:"selfHelpPrompt"`
	SelfHelpURL    string `json:"selfHelpURL"`
	Email          string `json:"email"`
	Xmatters       string `json:"xmatters"`
	NextUpdate     string `json:"nextUpdate"`
}

// DefaultSupport returns the stock platform contacts.
func DefaultSupport() Support {
	return Support{
		IssuesPrompt:   "For any issues seen during the release window please raise an ESSD and/or Matters:",
		IssuesURL:      "https://wpb-confluence.systems.uk.hsbc/display/TO/Guide+for+Cross+Functional+Teams",
		SelfHelpPrompt: "Please refer to this self-help page before reaching out to teams for tickets:",
		SelfHelpURL:    "https://wpb-confluence.systems.uk.hsbc/display/DCSE/SHP+Tenants+-+Self+Help+Page+for+Common+Issues",
		Email:          "dpsr@hsbc.co.uk",
		Xmatters:       "Digital Platform Operations",
		NextUpdate:     "Next update will be provided as soon as new information becomes available.",
	}
}
