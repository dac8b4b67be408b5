package jobs

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mitchellh/mapstructure"
)

// datasetItem is the shape produced by the LinkedIn job detail actor.
type datasetItem struct {
	JobInfo struct {
		Title       string `json:"title"`
		Location    string `json:"location"`
		Description string `json:"description"`
		JobURL      string `json:"job_url"`
	} `json:"job_info"`
	CompanyInfo struct {
		Name string `json:"name"`
	} `json:"company_info"`
}

var htmlTagRe = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

func decodeItems(items []map[string]any) ([]Record, error) {
	var decoded []datasetItem

	cfg := &mapstructure.DecoderConfig{
		Result:           &decoded,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(items); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(decoded))
	for _, item := range decoded {
		// Items without a title are actor error placeholders for unknown ids.
		if strings.TrimSpace(item.JobInfo.Title) == "" {
			continue
		}

		records = append(records, Record{
			Title:       strings.TrimSpace(item.JobInfo.Title),
			Company:     strings.TrimSpace(item.CompanyInfo.Name),
			Location:    strings.TrimSpace(item.JobInfo.Location),
			Description: normalizeDescription(item.JobInfo.Description),
			URL:         strings.TrimSpace(item.JobInfo.JobURL),
		})
	}

	return records, nil
}

// normalizeDescription converts HTML descriptions to markdown so prompts stay compact.
// Plain text is returned trimmed.
func normalizeDescription(description string) string {
	description = strings.TrimSpace(description)
	if !htmlTagRe.MatchString(description) {
		return description
	}

	markdown, err := htmltomarkdown.ConvertString(description)
	if err != nil {
		return description
	}

	return strings.TrimSpace(markdown)
}
