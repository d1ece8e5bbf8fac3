package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "research-tools/backend/pkg/errors"
)

// ============================================================================
// Scholarly Tool Implementations
// ============================================================================

const abstractLength = 500

func (e *Executor) politeHeaders() map[string]string {
	return map[string]string{
		"User-Agent": fmt.Sprintf("%s (mailto:%s)", e.web.UserAgent(), e.contactEmail),
	}
}

// Work is one OpenAlex result
type Work struct {
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Year         int64    `json:"year,omitempty"`
	CitedByCount int64    `json:"cited_by_count"`
	DOI          string   `json:"doi"`
	OpenAccess   bool     `json:"open_access"`
	Journal      string   `json:"journal,omitempty"`
	PDFURL       string   `json:"pdf_url,omitempty"`
	Abstract     string   `json:"abstract,omitempty"`
}

func (e *Executor) executeOpenAlexSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/works?search=%s&per_page=%d",
		e.endpoints.OpenAlex, url.QueryEscape(query), e.maxItems)
	data, err := e.web.GetJSON(ctx, apiURL, e.politeHeaders())
	if err != nil {
		return failure(err)
	}

	works := []Work{}
	for _, w := range data.Get("results").Array() {
		authors := []string{}
		for _, authorship := range firstResults(w.Get("authorships").Array(), 3) {
			if name := authorship.Get("author.display_name").String(); name != "" {
				authors = append(authors, name)
			}
		}
		work := Work{
			Title:        w.Get("title").String(),
			Authors:      authors,
			Year:         w.Get("publication_year").Int(),
			CitedByCount: w.Get("cited_by_count").Int(),
			DOI:          w.Get("doi").String(),
			OpenAccess:   w.Get("open_access.is_oa").Bool(),
			Journal:      w.Get("primary_location.source.display_name").String(),
			PDFURL:       w.Get("open_access.oa_url").String(),
		}
		if abstract := rebuildAbstract(w.Get("abstract_inverted_index")); abstract != "" {
			work.Abstract = truncate(abstract, abstractLength)
		}
		works = append(works, work)
	}

	total := data.Get("meta.count").Int()
	return &ToolResult{Success: true, Data: SearchResults{Query: query, TotalCount: &total, Results: works}}
}

// rebuildAbstract turns OpenAlex's word -> positions index back into text.
func rebuildAbstract(index gjson.Result) string {
	if !index.IsObject() {
		return ""
	}
	positions := map[int64]string{}
	index.ForEach(func(word, at gjson.Result) bool {
		for _, p := range at.Array() {
			positions[p.Int()] = word.String()
		}
		return true
	})
	if len(positions) == 0 {
		return ""
	}

	var last int64
	for p := range positions {
		if p > last {
			last = p
		}
	}
	words := make([]string, last+1)
	for p, w := range positions {
		if p >= 0 {
			words[p] = w
		}
	}
	return strings.Join(words, " ")
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// Preprint is one arXiv result
type Preprint struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	ArxivID    string   `json:"arxiv_id"`
	URL        string   `json:"url"`
	PDFURL     string   `json:"pdf_url"`
	Published  string   `json:"published"`
	Categories []string `json:"categories"`
}

func (e *Executor) executeArxivSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/api/query?search_query=all:%s&start=0&max_results=%d",
		e.endpoints.Arxiv, url.QueryEscape(query), e.maxItems)
	resp, err := e.web.GetBytes(ctx, apiURL, map[string]string{"Accept": "application/atom+xml"})
	if err != nil {
		return failure(err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(resp.Body, &feed); err != nil {
		return failure(apperrors.NewParseFailed("arXiv Atom", err))
	}

	preprints := []Preprint{}
	for _, entry := range feed.Entries {
		absURL := strings.TrimSpace(entry.ID)
		p := Preprint{
			Title:      squash(entry.Title),
			Authors:    []string{},
			Abstract:   truncate(squash(entry.Summary), abstractLength),
			URL:        absURL,
			Published:  prefix(strings.TrimSpace(entry.Published), 10),
			Categories: []string{},
		}
		if i := strings.Index(absURL, "/abs/"); i >= 0 {
			p.ArxivID = absURL[i+len("/abs/"):]
		}
		if absURL != "" {
			p.PDFURL = strings.Replace(absURL, "/abs/", "/pdf/", 1) + ".pdf"
		}
		for _, a := range entry.Authors {
			if len(p.Authors) == 5 {
				break
			}
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, c := range entry.Categories {
			if len(p.Categories) == 5 {
				break
			}
			p.Categories = append(p.Categories, c.Term)
		}
		preprints = append(preprints, p)
	}

	return &ToolResult{Success: true, Data: SearchResults{Query: query, Results: preprints}}
}

type pubmedSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type innerXML struct {
	Inner string `xml:",innerxml"`
}

type pubmedArticle struct {
	PMID     string     `xml:"MedlineCitation>PMID"`
	Title    innerXML   `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract []innerXML `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Authors  []struct {
		LastName string `xml:"LastName"`
		ForeName string `xml:"ForeName"`
	} `xml:"MedlineCitation>Article>AuthorList>Author"`
	Year    string `xml:"MedlineCitation>Article>Journal>JournalIssue>PubDate>Year"`
	Journal string `xml:"MedlineCitation>Article>Journal>Title"`
	IDs     []struct {
		Type  string `xml:"IdType,attr"`
		Value string `xml:",chardata"`
	} `xml:"PubmedData>ArticleIdList>ArticleId"`
}

// Citation is one PubMed result
type Citation struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	PMID     string   `json:"pmid"`
	URL      string   `json:"url"`
	Year     string   `json:"year"`
	Journal  string   `json:"journal"`
	DOI      string   `json:"doi"`
}

func (e *Executor) executePubMedSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	searchURL := fmt.Sprintf("%s/entrez/eutils/esearch.fcgi?db=pubmed&term=%s&retmax=%d&retmode=json",
		e.endpoints.PubMed, url.QueryEscape(query), e.maxItems)
	search, err := e.web.GetJSON(ctx, searchURL, nil)
	if err != nil {
		return failure(err)
	}

	total := search.Get("esearchresult.count").Int()
	ids := stringList(search.Get("esearchresult.idlist"))
	if len(ids) == 0 {
		return &ToolResult{Success: true, Data: SearchResults{Query: query, TotalCount: &total, Results: []Citation{}}}
	}

	fetchURL := fmt.Sprintf("%s/entrez/eutils/efetch.fcgi?db=pubmed&id=%s&retmode=xml",
		e.endpoints.PubMed, strings.Join(ids, ","))
	resp, err := e.web.GetBytes(ctx, fetchURL, map[string]string{"Accept": "application/xml"})
	if err != nil {
		return failure(err)
	}

	var set pubmedSet
	if err := xml.Unmarshal(resp.Body, &set); err != nil {
		return failure(apperrors.NewParseFailed("PubMed XML", err))
	}

	citations := []Citation{}
	for _, a := range set.Articles {
		c := Citation{
			Title:   cleanMarkup(a.Title.Inner),
			Authors: []string{},
			PMID:    strings.TrimSpace(a.PMID),
			Year:    strings.TrimSpace(a.Year),
			Journal: strings.TrimSpace(a.Journal),
		}

		parts := make([]string, 0, len(a.Abstract))
		for _, p := range a.Abstract {
			parts = append(parts, p.Inner)
		}
		c.Abstract = truncate(cleanMarkup(strings.Join(parts, " ")), abstractLength)

		for i, author := range a.Authors {
			if i == 5 {
				break
			}
			if author.LastName == "" {
				continue
			}
			name := author.LastName
			if author.ForeName != "" {
				name = author.ForeName + " " + name
			}
			c.Authors = append(c.Authors, name)
		}

		if c.PMID != "" {
			c.URL = fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", c.PMID)
		}
		for _, id := range a.IDs {
			if id.Type == "doi" && strings.TrimSpace(id.Value) != "" {
				c.DOI = "https://doi.org/" + strings.TrimSpace(id.Value)
				break
			}
		}
		citations = append(citations, c)
	}

	return &ToolResult{Success: true, Data: SearchResults{Query: query, TotalCount: &total, Results: citations}}
}

// Publication is one Crossref result
type Publication struct {
	Title        string   `json:"title"`
	Authors      []string `json:"authors"`
	Journal      string   `json:"journal"`
	Year         int64    `json:"year,omitempty"`
	DOI          string   `json:"doi"`
	DOIURL       string   `json:"doi_url"`
	Type         string   `json:"type"`
	CitedByCount int64    `json:"cited_by_count"`
}

func (e *Executor) executeCrossrefSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/works?query=%s&rows=%d",
		e.endpoints.Crossref, url.QueryEscape(query), e.maxItems)
	data, err := e.web.GetJSON(ctx, apiURL, e.politeHeaders())
	if err != nil {
		return failure(err)
	}

	pubs := []Publication{}
	for _, item := range data.Get("message.items").Array() {
		authors := []string{}
		for _, a := range firstResults(item.Get("author").Array(), 5) {
			name := strings.TrimSpace(a.Get("given").String() + " " + a.Get("family").String())
			if name != "" {
				authors = append(authors, name)
			}
		}

		published := item.Get("published-print")
		if !published.Exists() {
			published = item.Get("published-online")
		}

		doi := item.Get("DOI").String()
		pub := Publication{
			Title:        item.Get("title.0").String(),
			Authors:      authors,
			Journal:      item.Get("container-title.0").String(),
			Year:         published.Get("date-parts.0.0").Int(),
			DOI:          doi,
			Type:         item.Get("type").String(),
			CitedByCount: item.Get("is-referenced-by-count").Int(),
		}
		if doi != "" {
			pub.DOIURL = "https://doi.org/" + doi
		}
		pubs = append(pubs, pub)
	}

	total := data.Get("message.total-results").Int()
	return &ToolResult{Success: true, Data: SearchResults{Query: query, TotalCount: &total, Results: pubs}}
}
