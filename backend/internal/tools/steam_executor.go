package tools

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"

	apperrors "research-tools/backend/pkg/errors"
)

// ============================================================================
// Steam Tool Implementations
// ============================================================================

const reviewTextLength = 30000

// SteamApp is one Steam store search hit
type SteamApp struct {
	AppID    int64  `json:"app_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Price    string `json:"price,omitempty"`
	Discount string `json:"discount,omitempty"`
}

// SteamSearchResults is the result of steam_search
type SteamSearchResults struct {
	Query   string     `json:"query"`
	Total   int64      `json:"total"`
	Results []SteamApp `json:"results"`
}

func (e *Executor) executeSteamSearch(ctx context.Context, args map[string]interface{}) *ToolResult {
	query, err := requireString(args, "query")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/api/storesearch/?term=%s&cc=us&l=en", e.endpoints.Steam, url.QueryEscape(query))
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	apps := []SteamApp{}
	for _, item := range firstResults(data.Get("items").Array(), e.maxItems) {
		id := item.Get("id").Int()
		app := SteamApp{
			AppID: id,
			Name:  item.Get("name").String(),
			URL:   steamAppURL(strconv.FormatInt(id, 10)),
		}
		if final := item.Get("price.final").Int(); final != 0 {
			app.Price = fmt.Sprintf("$%.2f", float64(final)/100)
		}
		if discount := item.Get("price.discount_percent").Int(); discount != 0 {
			app.Discount = fmt.Sprintf("%d%%", discount)
		}
		apps = append(apps, app)
	}

	return &ToolResult{
		Success: true,
		Data:    SteamSearchResults{Query: query, Total: data.Get("total").Int(), Results: apps},
	}
}

func (e *Executor) executeSteamAppDetails(ctx context.Context, args map[string]interface{}) *ToolResult {
	appID, err := steamAppID(args)
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/api/appdetails?appids=%s&cc=us&l=en", e.endpoints.Steam, appID)
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}

	app := data.Get(appID)
	if !app.Get("success").Bool() {
		return failure(apperrors.NewToolExecutionFailed(ToolSteamAppDetails,
			"no details for app id "+appID, nil))
	}
	info := app.Get("data")

	var genres, categories []string
	for _, g := range info.Get("genres").Array() {
		genres = append(genres, g.Get("description").String())
	}
	for _, c := range info.Get("categories").Array() {
		categories = append(categories, c.Get("description").String())
	}

	details := map[string]interface{}{
		"app_id":            appID,
		"name":              info.Get("name").String(),
		"type":              info.Get("type").String(),
		"is_free":           info.Get("is_free").Bool(),
		"short_description": info.Get("short_description").String(),
		"developers":        stringList(info.Get("developers")),
		"publishers":        stringList(info.Get("publishers")),
		"genres":            nonNil(genres),
		"categories":        nonNil(categories),
		"url":               steamAppURL(appID),
	}
	if release := info.Get("release_date"); release.Exists() {
		details["release_date"] = release.Get("date").String()
		details["coming_soon"] = release.Get("coming_soon").Bool()
	}
	if meta := info.Get("metacritic"); meta.Exists() {
		details["metacritic_score"] = meta.Get("score").Int()
		details["metacritic_url"] = meta.Get("url").String()
	}
	if recs := info.Get("recommendations"); recs.Exists() {
		details["total_recommendations"] = recs.Get("total").Int()
	}
	if price := info.Get("price_overview"); price.Exists() {
		details["price"] = price.Get("final_formatted").String()
		if discount := price.Get("discount_percent").Int(); discount != 0 {
			details["discount_percent"] = discount
		}
	}
	if platforms := info.Get("platforms"); platforms.IsObject() {
		details["platforms"] = platforms.Value()
	}
	if support := info.Get("controller_support").String(); support != "" {
		details["controller_support"] = support
	}
	if dlc := info.Get("dlc").Array(); len(dlc) > 0 {
		details["dlc_count"] = len(dlc)
	}
	if langs := info.Get("supported_languages").String(); langs != "" {
		details["supported_languages"] = stripTags(langs)
	}

	return &ToolResult{Success: true, Data: details}
}

// SteamReview is one user review
type SteamReview struct {
	Recommended   bool    `json:"recommended"`
	PlaytimeHours float64 `json:"playtime_hours"`
	VotesUp       int64   `json:"votes_up"`
	VotesFunny    int64   `json:"votes_funny"`
	Text          string  `json:"text"`
}

// SteamReviews is the result of steam_reviews
type SteamReviews struct {
	AppID           string        `json:"app_id"`
	TotalReviews    int64         `json:"total_reviews"`
	TotalPositive   int64         `json:"total_positive"`
	TotalNegative   int64         `json:"total_negative"`
	ReviewScoreDesc string        `json:"review_score_desc"`
	PositivePercent *float64      `json:"positive_percent,omitempty"`
	Reviews         []SteamReview `json:"reviews"`
}

func (e *Executor) executeSteamReviews(ctx context.Context, args map[string]interface{}) *ToolResult {
	appID, err := steamAppID(args)
	if err != nil {
		return failure(err)
	}
	count, err := intArg(args, "num_reviews", 100)
	if err != nil {
		return failure(err)
	}
	filter, err := oneOf("filter", stringArg(args, "filter"), "all", "all", "recent", "updated")
	if err != nil {
		return failure(err)
	}

	apiURL := fmt.Sprintf("%s/appreviews/%s?json=1&language=english&num_per_page=%d&filter=%s&purchase_type=all",
		e.endpoints.Steam, appID, clamp(count, 1, 100), filter)
	data, err := e.web.GetJSON(ctx, apiURL, nil)
	if err != nil {
		return failure(err)
	}
	if !data.Get("success").Bool() {
		return failure(apperrors.NewToolExecutionFailed(ToolSteamReviews,
			"no reviews for app id "+appID, nil))
	}

	summary := data.Get("query_summary")
	result := SteamReviews{
		AppID:           appID,
		TotalReviews:    summary.Get("total_reviews").Int(),
		TotalPositive:   summary.Get("total_positive").Int(),
		TotalNegative:   summary.Get("total_negative").Int(),
		ReviewScoreDesc: summary.Get("review_score_desc").String(),
		Reviews:         []SteamReview{},
	}
	if result.TotalReviews > 0 {
		pct := roundTo(100*float64(result.TotalPositive)/float64(result.TotalReviews), 1)
		result.PositivePercent = &pct
	}

	for _, r := range data.Get("reviews").Array() {
		text := bbcodePattern.ReplaceAllString(r.Get("review").String(), "")
		if len([]rune(text)) > reviewTextLength {
			text = prefix(text, reviewTextLength) + "\n\n[... truncated ...]"
		}
		result.Reviews = append(result.Reviews, SteamReview{
			Recommended:   r.Get("voted_up").Bool(),
			PlaytimeHours: roundTo(r.Get("author.playtime_forever").Float()/60, 1),
			VotesUp:       r.Get("votes_up").Int(),
			VotesFunny:    r.Get("votes_funny").Int(),
			Text:          text,
		})
	}

	return &ToolResult{Success: true, Data: result}
}

// steamAppID reads and validates the numeric app_id argument.
func steamAppID(args map[string]interface{}) (string, error) {
	appID, err := requireString(args, "app_id")
	if err != nil {
		return "", err
	}
	if _, err := strconv.ParseUint(appID, 10, 64); err != nil {
		return "", apperrors.NewInvalidArgument("app_id", "must be a numeric Steam app id")
	}
	return appID, nil
}

func steamAppURL(appID string) string {
	return "https://store.steampowered.com/app/" + appID
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
