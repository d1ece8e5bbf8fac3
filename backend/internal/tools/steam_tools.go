package tools

import (
	"research-tools/backend/internal/adapter"
)

// GetSteamTools returns Steam store tools
func GetSteamTools() []adapter.Tool {
	return []adapter.Tool{
		function(ToolSteamSearch,
			"Search the Steam store for games by name. Returns app ids, names and prices. Use it to find an app id.",
			map[string]interface{}{
				"query": stringParam("Game name"),
			}, "query"),
		function(ToolSteamAppDetails,
			"Get details about a Steam game by app id: description, genres, developers, release date, Metacritic score, price and platforms.",
			map[string]interface{}{
				"app_id": stringParam("Numeric Steam app id, e.g. '570'"),
			}, "app_id"),
		function(ToolSteamReviews,
			"Fetch Steam user reviews for a game by app id, with the overall review summary.",
			map[string]interface{}{
				"app_id":      stringParam("Numeric Steam app id"),
				"num_reviews": integerParam("Number of reviews (default: 100, max 100)"),
				"filter":      enumParam("Which reviews to return (default: all)", "all", "recent", "updated"),
			}, "app_id"),
	}
}
