package keyword

import "strings"

// TextKeywords are natural-language cues that an element leads to a
// submission page. Matching is substring-based on purpose: "add" also hits
// "add your site", at the cost of the occasional false positive.
var TextKeywords = []string{
	"submit", "add site", "add url", "suggest", "list your site",
	"đăng ký", "đăng", "gửi", "thêm", "gửi liên hệ", "gửi thông tin", "đề xuất", "đưa trang lên",
	"submit.php", "add", "suggest-site",
}

// HrefKeywords are URL-path cues checked against anchor hrefs.
var HrefKeywords = []string{
	"submit", "add", "suggest", "add-site", "suggest-site", "submit.php", "contact", "signup", "register",
}

// Match reports whether any keyword occurs in text after trimming and
// lowercasing. Empty text never matches.
func Match(text string, keywords []string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
