package views

// Interface strings. Only the code titles follow the selected language.
const (
	heading           = "NACEBEL 2025 codes"
	subtitle          = "Search the Belgian activity nomenclature by code or description."
	searchPlaceholder = "Code or keyword, e.g. 62.01 or software"
	searchButton      = "Search"
	allLevels         = "All levels"
	levelFilter       = "From level"
	levelLabel        = "Level"
	codeLabel         = "Code"
	descriptionLabel  = "Description"
	previousLabel     = "Previous"
	nextLabel         = "Next"
	pageOf            = "Page %d of %d"
	resultCount       = "%d codes"
	noResults         = "No codes match your search."
	exportLabel       = "Download CSV"
	apiDocsLabel      = "API"
	moreInfo          = "Explanatory notes"
	backLabel         = "Back to search"
)
