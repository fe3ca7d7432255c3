package gtfsload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestActiveServiceSetCalendarOnly(t *testing.T) {
	calendar := []CalendarRow{
		{ServiceID: "weekday", Monday: 1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1},
		{ServiceID: "weekend", Saturday: 1, Sunday: 1},
	}

	active := activeServiceSet(calendar, nil, time.Monday)
	assert.True(t, active["weekday"])
	assert.False(t, active["weekend"])
}

func TestActiveServiceSetExceptions(t *testing.T) {
	calendar := []CalendarRow{
		{ServiceID: "weekday", Monday: 1},
	}
	exceptions := []CalendarDateRow{
		{ServiceID: "weekday", ExceptionType: 2},
		{ServiceID: "special", ExceptionType: 1},
	}

	active := activeServiceSet(calendar, exceptions, time.Monday)
	assert.False(t, active["weekday"], "exception type 2 removes an otherwise-active service")
	assert.True(t, active["special"], "exception type 1 adds a service")
}
