package models

// Funnel paths. The order a visitor is redirected through is
// Test -> SubmitTest -> EmailCollection -> SubmitEmail -> Analysis -> FinalResults.
const (
	PathHome            = "/"
	PathTest            = "/test"
	PathTestDirect      = "/test-direct"
	PathResults         = "/results"
	PathPrivacy         = "/privacy"
	PathTerms           = "/terms"
	PathHelp            = "/help"
	PathTestPrep        = "/test-prep"
	PathEmailCollection = "/email-collection"
	PathAnalysis        = "/analysis"
	PathFinalResults    = "/final-results"

	PathQuestionsScript = "/questions.js"
	PathSubmitTest      = "/submit-test"
	PathSubmitEmail     = "/submit-email"
	PathHealth          = "/health"
	PathMetrics         = "/metrics"
)

// Page is a template-backed GET route.
type Page struct {
	Path     string
	Template string
	Title    string
}

// Pages lists every rendered page of the site.
var Pages = []Page{
	{Path: PathHome, Template: "index.html", Title: "Free IQ Test"},
	{Path: PathTest, Template: "test.html", Title: "IQ Test"},
	{Path: PathTestDirect, Template: "test-direct.html", Title: "IQ Test"},
	{Path: PathResults, Template: "results.html", Title: "Your Results"},
	{Path: PathPrivacy, Template: "privacy.html", Title: "Privacy Policy"},
	{Path: PathTerms, Template: "terms.html", Title: "Terms of Service"},
	{Path: PathHelp, Template: "help.html", Title: "Help"},
	{Path: PathTestPrep, Template: "test-prep.html", Title: "Before You Start"},
	{Path: PathEmailCollection, Template: "email_collection.html", Title: "Almost There"},
	{Path: PathAnalysis, Template: "analysis.html", Title: "Analyzing Your Answers"},
	{Path: PathFinalResults, Template: "final_results.html", Title: "Your Full Report"},
}
