package extract

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// defaultVocabulary is the marketplace's audience taxonomy. Pages are
// tagged with every entry they mention.
var defaultVocabulary = []string{
	"Small businesses", "Marketers", "Marketing agencies", "Content creators",
	"Solopreneurs", "Bloggers", "Ecommerce", "Freelancers", "Developers",
	"Customer support", "SaaS", "Web design agencies", "Sales managers",
	"Consultants", "Course creators", "Educators", "Web designers", "C-suite",
	"Entrepreneur-curious", "Copywriters", "Graphic designers", "Online coaches",
	"IT/security agencies", "Event organizers", "Product managers",
	"Social media managers", "Accountants", "Influencers", "Project managers",
	"Remote teams", "Social media marketers", "YouTubers", "Recruiters",
	"Task Automation", "Photographers", "Real estate", "Authors", "Crypto",
	"Product designers", "Podcasters", "QA", "Videographers", "Nonprofits",
	"Virtual assistants", "Visual artists",
}

type vocabularyFile struct {
	Categories []string `yaml:"categories"`
}

// LoadVocabulary reads a category vocabulary override from a YAML file
// with a top-level `categories` list.
func LoadVocabulary(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "extract: read vocabulary file")
	}

	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "extract: parse vocabulary file")
	}
	if len(f.Categories) == 0 {
		return nil, eris.New("extract: vocabulary file has no categories")
	}

	return f.Categories, nil
}
