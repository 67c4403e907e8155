package bbscrape

import (
	"encoding/json"
	"time"

	"github.com/BlackboardFS/bbfs/item"
	"github.com/BlackboardFS/bbfs/provider"
)

// meResponse mirrors the `User` struct in original_source/bbfs-scrape:
// only the id field is ever consumed.
type meResponse struct {
	ID string `json:"id"`
}

// membershipsResponse and friends mirror
// original_source/bbfs-scrape/src/memberships_data.rs field for field,
// translated from serde's camelCase renaming into encoding/json tags.
type membershipsResponse struct {
	Results []membership `json:"results"`
}

type membership struct {
	CourseID string            `json:"courseId"`
	Course   membershipDetails `json:"course"`
}

type membershipDetails struct {
	ShortName   string `json:"courseId"`
	DisplayName string `json:"displayName"`
	Term        term   `json:"term"`
}

type term struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

func (c *Client) getMe() (meResponse, error) {
	body, err := c.getPage(mePage())
	if err != nil {
		return meResponse{}, err
	}
	var me meResponse
	if err := json.Unmarshal([]byte(body), &me); err != nil {
		return meResponse{}, provider.Wrap(provider.ProtocolParse, "parsing /users/me response", err)
	}
	return me, nil
}

// shortNameLen mirrors `value.course.short_name[..8]` in
// original_source/bbfs-scrape/src/memberships_data.rs: the course short
// name is truncated to its first 8 characters (§4 "Course short-name
// truncation" of SPEC_FULL.md).
const shortNameLen = 8

func truncateShortName(name string) string {
	r := []rune(name)
	if len(r) <= shortNameLen {
		return name
	}
	return string(r[:shortNameLen])
}

// getCourses lists the caller's enrolled courses, filtered by term
// window unless allCourses is set (the "--all" flag's effect, §4 "Course
// term filtering" of SPEC_FULL.md).
func (c *Client) getCourses() ([]item.Course, error) {
	me, err := c.getMe()
	if err != nil {
		return nil, err
	}

	body, err := c.getPage(courseListPage(me.ID))
	if err != nil {
		return nil, err
	}

	var memberships membershipsResponse
	if err := json.Unmarshal([]byte(body), &memberships); err != nil {
		return nil, provider.Wrap(provider.ProtocolParse, "parsing memberships response", err)
	}

	now := time.Now().UTC()
	courses := make([]item.Course, 0, len(memberships.Results))
	for _, m := range memberships.Results {
		if !c.allCourses && !withinTerm(m.Course.Term, now) {
			continue
		}
		courses = append(courses, item.Course{
			ID:        m.CourseID,
			ShortName: truncateShortName(m.Course.ShortName),
		})
	}
	return courses, nil
}

func withinTerm(t term, now time.Time) bool {
	if t.StartDate == nil || t.EndDate == nil {
		return false
	}
	return !now.Before(*t.StartDate) && !now.After(*t.EndDate)
}
