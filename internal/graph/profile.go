package graph

import (
	"context"
	"net/url"

	"golang.org/x/sync/errgroup"
)

type Named struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Locale    string `json:"locale,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	Hometown  *Named `json:"hometown,omitempty"`
	Location  *Named `json:"location,omitempty"`
	Website   string `json:"website,omitempty"`
	About     string `json:"about,omitempty"`
	Link      string `json:"link,omitempty"`
	Picture   *struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture,omitempty"`
}

func (u User) PictureURL() string {
	if u.Picture == nil {
		return ""
	}
	return u.Picture.Data.URL
}

type Media struct {
	Image *struct {
		Src string `json:"src"`
	} `json:"image,omitempty"`
	Source string `json:"source,omitempty"`
}

type Attachment struct {
	Type           string `json:"type,omitempty"`
	Media          *Media `json:"media,omitempty"`
	Subattachments *struct {
		Data []Attachment `json:"data"`
	} `json:"subattachments,omitempty"`
}

type Post struct {
	ID          string `json:"id,omitempty"`
	Message     string `json:"message,omitempty"`
	Story       string `json:"story,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
	Attachments *struct {
		Data []Attachment `json:"data"`
	} `json:"attachments,omitempty"`
}

type Photo struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
	Images      []struct {
		Source string `json:"source"`
	} `json:"images,omitempty"`
}

type Video struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
	Source      string `json:"source,omitempty"`
}

type Like struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
}

type Event struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	Place       *Named `json:"place,omitempty"`
}

type list[T any] struct {
	Data []T `json:"data"`
}

// Profile is the view model of one searched user.
type Profile struct {
	User    User     `json:"user"`
	Friends []string `json:"friends"`
	Posts   []Post   `json:"posts"`
	Photos  []Photo  `json:"photos"`
	Videos  []Video  `json:"videos"`
	Likes   []Like   `json:"likes"`
	Events  []Event  `json:"events"`
}

const userFields = "id,name,first_name,last_name,email,gender,locale,age_range,birthday,hometown,location,website,about,link,picture.type(large)"

// Profile fetches every section concurrently. The first failing section
// cancels the rest and its error is returned.
func (c *Client) Profile(ctx context.Context, token, subject string, staticFriends []string) (*Profile, error) {
	p := &Profile{}
	var (
		friends list[Named]
		posts   list[Post]
		photos  list[Photo]
		videos  list[Video]
		likes   list[Like]
		evs     list[Event]
	)

	g, ctx := errgroup.WithContext(ctx)
	fetch := func(endpoint, fields string, out any) {
		g.Go(func() error {
			params := url.Values{}
			if fields != "" {
				params.Set("fields", fields)
			}
			return c.Fetch(ctx, token, endpoint, params, out)
		})
	}
	fetch(subject, userFields, &p.User)
	fetch(subject+"/friends", "", &friends)
	fetch(subject+"/posts", "message,story,created_time,attachments{media,subattachments}", &posts)
	fetch(subject+"/photos", "name,created_time,images", &photos)
	fetch(subject+"/videos", "description,created_time,source,thumbnails", &videos)
	fetch(subject+"/likes", "name,category,created_time", &likes)
	fetch(subject+"/events", "name,description,start_time,end_time,place", &evs)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(friends.Data))
	for _, f := range friends.Data {
		names = append(names, f.Name)
	}
	p.Friends = MergeFriends(staticFriends, names)
	p.Posts = OwnPosts(posts.Data)
	p.Photos = photos.Data
	p.Videos = videos.Data
	p.Likes = likes.Data
	p.Events = evs.Data
	return p, nil
}
