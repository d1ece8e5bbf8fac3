package tools

import "strings"

// Endpoints holds the base URL of every upstream a tool talks to. Tests
// point them at an httptest server.
type Endpoints struct {
	DuckDuckGoAPI  string
	DuckDuckGoHTML string
	Wikipedia      string
	Wikidata       string
	HackerNews     string
	Reddit         string
	OpenLibrary    string
	OpenAlex       string
	Arxiv          string
	PubMed         string
	Crossref       string
	GitHubAPI      string
	GitHubRaw      string
	Steam          string
	YouTube        string
	RDAP           string
}

// DefaultEndpoints returns the public API hosts.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		DuckDuckGoAPI:  "https://api.duckduckgo.com",
		DuckDuckGoHTML: "https://html.duckduckgo.com",
		Wikipedia:      "https://en.wikipedia.org",
		Wikidata:       "https://www.wikidata.org",
		HackerNews:     "https://hn.algolia.com",
		Reddit:         "https://www.reddit.com",
		OpenLibrary:    "https://openlibrary.org",
		OpenAlex:       "https://api.openalex.org",
		Arxiv:          "http://export.arxiv.org",
		PubMed:         "https://eutils.ncbi.nlm.nih.gov",
		Crossref:       "https://api.crossref.org",
		GitHubAPI:      "https://api.github.com/",
		GitHubRaw:      "https://raw.githubusercontent.com",
		Steam:          "https://store.steampowered.com",
		YouTube:        "https://www.youtube.com",
		RDAP:           "https://rdap.org",
	}
}

// AllAt returns a set where every endpoint is base.
func AllAt(base string) Endpoints {
	base = strings.TrimRight(base, "/")
	return Endpoints{
		DuckDuckGoAPI:  base,
		DuckDuckGoHTML: base,
		Wikipedia:      base,
		Wikidata:       base,
		HackerNews:     base,
		Reddit:         base,
		OpenLibrary:    base,
		OpenAlex:       base,
		Arxiv:          base,
		PubMed:         base,
		Crossref:       base,
		GitHubAPI:      base + "/",
		GitHubRaw:      base,
		Steam:          base,
		YouTube:        base,
		RDAP:           base,
	}
}
