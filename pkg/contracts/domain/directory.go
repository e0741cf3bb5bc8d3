package domain

// User is one entry of the completion user directory
type User struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Name string `yaml:"name" json:"name" validate:"required"`
}

// UserDirectory maps completion user ids to display names. It is immutable
// after construction and keeps the insertion order of its entries.
type UserDirectory struct {
	users []User
	names map[string]string
}

// NewUserDirectory builds a directory from the given entries. A repeated id
// keeps its first position and its last name.
func NewUserDirectory(users ...User) *UserDirectory {
	d := &UserDirectory{names: make(map[string]string, len(users))}
	for _, u := range users {
		if _, ok := d.names[u.ID]; !ok {
			d.users = append(d.users, u)
		} else {
			for i := range d.users {
				if d.users[i].ID == u.ID {
					d.users[i].Name = u.Name
				}
			}
		}
		d.names[u.ID] = u.Name
	}
	return d
}

// DefaultUserDirectory returns the built-in directory of BDWCNFG completers
func DefaultUserDirectory() *UserDirectory {
	return NewUserDirectory(
		User{ID: "abharti", Name: "Ankur"},
		User{ID: "agiri1", Name: "Aman"},
		User{ID: "dahuja", Name: "Daksh"},
		User{ID: "dmam", Name: "Deepak"},
		User{ID: "mranganathan", Name: "Magesh"},
		User{ID: "psrihari", Name: "Prakasam"},
		User{ID: "rjain6", Name: "Rohit"},
		User{ID: "sarikapudi", Name: "Sudheer"},
		User{ID: "sjain16", Name: "Siddharth"},
		User{ID: "spatnam", Name: "Sreekanth"},
	)
}

// Contains reports whether id is a known user
func (d *UserDirectory) Contains(id string) bool {
	_, ok := d.names[id]
	return ok
}

// DisplayName returns the name for id, or id itself when it is unknown
func (d *UserDirectory) DisplayName(id string) string {
	if name, ok := d.names[id]; ok {
		return name
	}
	return id
}

// IDs returns the user ids in directory order
func (d *UserDirectory) IDs() []string {
	ids := make([]string, len(d.users))
	for i, u := range d.users {
		ids[i] = u.ID
	}
	return ids
}

// Users returns a copy of the directory entries
func (d *UserDirectory) Users() []User {
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

// Len returns the number of entries
func (d *UserDirectory) Len() int {
	return len(d.users)
}
