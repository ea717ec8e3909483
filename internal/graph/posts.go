package graph

const PostsPerPage = 5

// OwnPosts keeps posts the user wrote: not shares or stories, and with text or an image.
func OwnPosts(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Story != "" || p.hasAttachment(func(a Attachment) bool { return a.Type == "share" }) {
			continue
		}
		hasImage := p.hasAttachment(func(a Attachment) bool { return a.Media != nil && a.Media.Image != nil })
		if p.Message != "" || hasImage {
			out = append(out, p)
		}
	}
	return out
}

func (p Post) hasAttachment(match func(Attachment) bool) bool {
	if p.Attachments == nil {
		return false
	}
	for _, a := range p.Attachments.Data {
		if match(a) {
			return true
		}
	}
	return false
}

// PagePosts returns the first page*PostsPerPage posts ("load more" paging)
// and whether more remain.
func PagePosts(posts []Post, page int) ([]Post, bool) {
	if page < 1 {
		page = 1
	}
	end := page * PostsPerPage
	if end >= len(posts) {
		return posts, false
	}
	return posts[:end], true
}

// MergeFriends puts the fixed names first and appends the rest without duplicates.
func MergeFriends(static, actual []string) []string {
	out := make([]string, 0, len(static)+len(actual))
	seen := make(map[string]bool, len(static)+len(actual))
	for _, names := range [][]string{static, actual} {
		for _, n := range names {
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
