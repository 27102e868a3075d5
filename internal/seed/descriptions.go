package seed

import "strings"

type descriptionRule struct {
	keywords    []string
	description string
}

// 依序比對，第一個命中的規則勝出；關鍵字為子字串比對
var descriptionRules = []descriptionRule{
	{
		keywords: []string{"music", "concert", "band", "song", "dj", "fest"},
		description: "Get ready for an unforgettable night of music and rhythm! " +
			"Join us as top artists take the stage to perform their greatest hits. " +
			"Experience the energy, the lights, and the sound in a venue designed for acoustics. " +
			"Grab your tickets now and be part of the musical magic!",
	},
	{
		keywords: []string{"tech", "code", "hack", "ai", "soft", "web", "data"},
		description: "Dive into the future of technology at this exclusive event. " +
			"Connect with industry leaders, developers, and innovators. " +
			"Featuring keynote speeches, hands-on workshops, and demos of the latest gadgets. " +
			"Whether you are a coding pro or a tech enthusiast, this is the place to be.",
	},
	{
		keywords: []string{"art", "design", "paint", "gallery", "exhibit"},
		description: "Immerse yourself in a world of creativity and expression. " +
			"This exhibition showcases breathtaking works from renowned and emerging artists. " +
			"Explore diverse mediums, attend artist talks, and find inspiration in every corner. " +
			"A perfect outing for art lovers and creative souls.",
	},
	{
		keywords: []string{"business", "startup", "market", "money", "finance", "lead"},
		description: "Unlock new opportunities and expand your professional network. " +
			"Join entrepreneurs, investors, and visionaries for a day of insightful discussions. " +
			"Learn strategies for growth, leadership, and innovation in today's market. " +
			"Elevate your career and business to the next level.",
	},
	{
		keywords: []string{"sport", "run", "yoga", "fit", "game", "match"},
		description: "Feel the adrenaline and the spirit of competition! " +
			"Whether you are participating or cheering, the energy here is unmatched. " +
			"Witness incredible feats of athleticism and sportsmanship. " +
			"Bring your friends and family for a day of action and fun.",
	},
}

var defaultDescriptions = []string{
	"Join us for an exciting event featuring industry experts, interactive sessions, and great networking opportunities. Don't miss this chance to learn, connect, and grow!",
	"Experience an event like no other! We have curated a fantastic lineup of activities and speakers just for you. Reserve your spot today and make memories that will last a lifetime.",
	"Looking for something amazing to do? This event promises entertainment, education, and engagement. Perfect for individuals and groups alike. See you there!",
}

// DescriptionFor 依標題關鍵字挑選描述，沒有命中時以 id 輪替預設描述
func DescriptionFor(id int, title string) string {
	lower := strings.ToLower(title)
	for _, rule := range descriptionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.description
			}
		}
	}
	if id < 0 {
		id = -id
	}
	return defaultDescriptions[id%len(defaultDescriptions)]
}
