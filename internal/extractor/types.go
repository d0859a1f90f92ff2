package extractor

// Request is the body accepted by the extraction endpoint.
type Request struct {
	URL            string `json:"url"`
	CrawlMode      string `json:"crawlMode"`
	TurnstileToken string `json:"turnstileToken"`
}

// Result is returned for a successful extraction. Emails is sorted, unique and never nil.
type Result struct {
	Success      bool     `json:"success"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Emails       []string `json:"emails"`
	Count        int      `json:"count"`
	PagesCrawled int      `json:"pagesCrawled"`
	CrawlMode    Mode     `json:"crawlMode"`
}
