package models

// SearchPage is one page of catalog results.
type SearchPage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
	Results      []Movie `json:"results"`
}

// HasNext reports whether another page is available.
func (p *SearchPage) HasNext() bool {
	return p != nil && p.Page < p.TotalPages
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Character   string  `json:"character"`
	ProfilePath *string `json:"profile_path"`
	Order       int     `json:"order"`
}

type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Video is a clip hosted on an external site. Key is site specific.
type Video struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// IsYouTubeTrailer reports whether v is a trailer playable on YouTube.
func (v Video) IsYouTubeTrailer() bool {
	return v.Site == "YouTube" && v.Type == "Trailer" && v.Key != ""
}

type Review struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// MovieDetails is the full catalog record for a single movie.
//
// Credits, Videos, Similar and Reviews are only populated when requested
// through append_to_response.
type MovieDetails struct {
	Movie
	OriginalTitle string  `json:"original_title"`
	Tagline       string  `json:"tagline"`
	Runtime       int     `json:"runtime"`
	Genres        []Genre `json:"genres"`
	VoteCount     int     `json:"vote_count"`
	BackdropPath  *string `json:"backdrop_path"`
	Homepage      string  `json:"homepage"`
	Credits       Credits `json:"credits"`
	Videos        struct {
		Results []Video `json:"results"`
	} `json:"videos"`
	Similar struct {
		Results []Movie `json:"results"`
	} `json:"similar"`
	Reviews struct {
		Results []Review `json:"results"`
	} `json:"reviews"`
}

// Directors returns crew members whose job is Director.
func (d *MovieDetails) Directors() []CrewMember {
	var out []CrewMember
	for _, c := range d.Credits.Crew {
		if c.Job == "Director" {
			out = append(out, c)
		}
	}
	return out
}

// TopCast returns up to n cast members in billing order.
func (d *MovieDetails) TopCast(n int) []CastMember {
	if n < 0 || n > len(d.Credits.Cast) {
		n = len(d.Credits.Cast)
	}
	return d.Credits.Cast[:n]
}

// GenreNames lists genre names in catalog order.
func (d *MovieDetails) GenreNames() []string {
	names := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		names[i] = g.Name
	}
	return names
}
