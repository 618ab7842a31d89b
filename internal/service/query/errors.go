package query

import "errors"

var ErrBadDay = errors.New("day must be YYYY-MM-DD")
