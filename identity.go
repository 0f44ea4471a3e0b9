package followgraph

import (
	"fmt"
	"strconv"
)

// Identifier is implemented by anything that carries an identity, so
// identity-bearing objects (including *User) can be passed wherever a
// target identity is expected.
type Identifier interface {
	Identity() string
}

// Identities normalizes a mixed target list into identity strings.
// Accepted elements: strings, integer kinds, Identifier implementations,
// and slices of any of those (flattened one level, order preserved).
// Anything else yields ErrBadIdentity.
func Identities(targets ...interface{}) ([]string, error) {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		switch v := t.(type) {
		case []interface{}:
			for _, e := range v {
				id, err := oneIdentity(e)
				if err != nil {
					return nil, err
				}
				ids = append(ids, id)
			}
		case []string:
			ids = append(ids, v...)
		case []int:
			for _, n := range v {
				ids = append(ids, strconv.Itoa(n))
			}
		case []int64:
			for _, n := range v {
				ids = append(ids, strconv.FormatInt(n, 10))
			}
		case []Identifier:
			for _, e := range v {
				ids = append(ids, e.Identity())
			}
		case []*User:
			for _, u := range v {
				ids = append(ids, u.Identity())
			}
		default:
			id, err := oneIdentity(t)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func oneIdentity(t interface{}) (string, error) {
	switch v := t.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case Identifier:
		return v.Identity(), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrBadIdentity, t)
	}
}
