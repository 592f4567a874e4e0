package services

import (
	"sort"
	"strings"

	"secretlocale/pkg/models"
)

const pillarSuffix = "-hidden-gems"

const maxSupportingArticles = 4

// Slug fragments that disqualify a post from being a pillar article.
var pillarExclusions = []string{
	"best-time-to",
	"budget-friendly",
	"budget-",
	"authentic-",
	"how-to-find",
	"traditional-",
	"local-",
	"unique-",
	"free-",
	"day-trips-",
	"one-day-",
	"3-day-",
	"3day-",
}

// Slug fragments that make a post poor supporting content. Almost the pillar
// list, except the first entry is the narrower "best-time-to-visit".
var supportingExclusions = []string{
	"best-time-to-visit",
	"budget-friendly",
	"budget-",
	"authentic-",
	"how-to-find",
	"traditional-",
	"local-",
	"unique-",
	"free-",
	"day-trips-",
	"one-day-",
	"3-day-",
	"3day-",
}

// Cities whose sections are pinned to the front, in this order.
var priorityCities = []string{"tokyo", "kyoto"}

func containsAny(slug string, fragments []string) bool {
	for _, fragment := range fragments {
		if strings.Contains(slug, fragment) {
			return true
		}
	}
	return false
}

func titleCaseCity(citySlug string) string {
	words := strings.Split(citySlug, "-")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func isPriorityCity(citySlug string) bool {
	for _, city := range priorityCities {
		if citySlug == city {
			return true
		}
	}
	return false
}

// isSupportingArticle matches posts that mention the city by slug, title, or
// tag and are not disqualified by the exclusion list.
func isSupportingArticle(post *models.PostMeta, pillarSlug, citySlug string) bool {
	if post.Slug == pillarSlug {
		return false
	}
	cityName := strings.ReplaceAll(citySlug, "-", " ")
	cityNameLower := strings.ToLower(cityName)

	mentions := strings.Contains(post.Slug, citySlug) ||
		strings.Contains(strings.ToLower(post.Title), cityNameLower)
	if !mentions {
		for _, word := range strings.Split(cityName, " ") {
			if strings.Contains(post.Slug, word) {
				mentions = true
				break
			}
		}
	}
	if !mentions {
		for _, tag := range post.Tags {
			if strings.Contains(strings.ToLower(tag), cityNameLower) {
				mentions = true
				break
			}
		}
	}

	return mentions && !containsAny(post.Slug, supportingExclusions)
}

// CitiesWithArticles groups pillar "<city>-hidden-gems" articles with up to
// four supporting articles each. Priority cities sort first, the rest by
// total article count descending.
func (i *Index) CitiesWithArticles(limit int) []models.CitySection {
	all := i.Posts()

	var citySlugs []string
	pillars := map[string]models.PostMeta{}
	for idx := range all {
		post := all[idx]
		if !strings.HasSuffix(post.Slug, pillarSuffix) || containsAny(post.Slug, pillarExclusions) {
			continue
		}
		citySlug := strings.TrimSuffix(post.Slug, pillarSuffix)
		if _, seen := pillars[citySlug]; !seen {
			pillars[citySlug] = post
			citySlugs = append(citySlugs, citySlug)
		}
	}

	sections := make([]models.CitySection, 0, len(citySlugs))
	for _, citySlug := range citySlugs {
		pillar := pillars[citySlug]

		supporting := []models.PostMeta{}
		for idx := range all {
			if len(supporting) == maxSupportingArticles {
				break
			}
			if isSupportingArticle(&all[idx], pillar.Slug, citySlug) {
				supporting = append(supporting, all[idx])
			}
		}

		sections = append(sections, models.CitySection{
			City:               titleCaseCity(citySlug),
			CitySlug:           citySlug,
			PillarArticle:      &pillar,
			SupportingArticles: supporting,
			TotalArticles:      1 + len(supporting),
		})
	}

	sort.SliceStable(sections, func(a, b int) bool {
		aPriority := isPriorityCity(sections[a].CitySlug)
		bPriority := isPriorityCity(sections[b].CitySlug)
		if aPriority != bPriority {
			return aPriority
		}
		if aPriority && bPriority {
			return sections[a].CitySlug == "tokyo" && sections[b].CitySlug != "tokyo"
		}
		return sections[a].TotalArticles > sections[b].TotalArticles
	})

	if limit > 0 && limit < len(sections) {
		sections = sections[:limit]
	}
	return sections
}
