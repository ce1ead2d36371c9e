// AngelaMos | 2026
// entity.go

package haven

type Haven struct {
	ID        int64   `db:"haven_id"`
	UserID    int64   `db:"user_id"`
	Name      string  `db:"name"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
	Radius    float64 `db:"radius"`
}

func (h *Haven) OwnedBy(userID int64) bool {
	return h.UserID == userID
}

// Quota is a user's standing against the free haven limit.
type Quota struct {
	IsPro   bool
	Current int
	Limit   int
}

func (q Quota) CanCreate() bool {
	return q.IsPro || q.Current < q.Limit
}

func (q Quota) Remaining() int {
	if n := q.Limit - q.Current; n > 0 {
		return n
	}
	return 0
}
