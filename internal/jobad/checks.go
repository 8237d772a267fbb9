package jobad

import (
	"strconv"

	"github.com/jimezsa/jobadcheck/internal/models"
)

// checkDescription treats description as optional: absence and blankness are
// reported as different kinds.
func checkDescription(rec *recorder, doc object) {
	const field = "description"

	raw, ok := doc.lookup(field)
	if !ok {
		rec.check("description filled", field, "", missing(field))
		return
	}

	switch value := raw.(type) {
	case nil:
		rec.check("description filled", field, "", blank(field))
	case string:
		var failure *Failure
		if isBlank(value) {
			failure = blank(field)
		}
		rec.check("description filled", field, Preview(value), failure)
	default:
		rec.check("description filled", field, "", &Failure{
			Kind:    KindFieldMismatch,
			Field:   field,
			Message: "want string, got " + jsonType(raw),
		})
	}
}

func checkStudents(rec *recorder, doc object, want bool) {
	value, failure := doc.boolean("", "isForStudents")
	observed := ""
	if failure == nil {
		observed = strconv.FormatBool(value)
		if value != want {
			failure = mismatch("isForStudents", want, value)
		}
	}
	rec.check("suitable for students", "isForStudents", observed, failure)
}

func checkLocation(rec *recorder, doc object, want models.Location) {
	location, failure := doc.child("", "location")
	if failure != nil {
		rec.check("location present", "location", "", failure)
		return
	}

	fields := []struct {
		name string
		key  string
		want string
	}{
		{"location name", "name", want.Name},
		{"location country", "country", want.Country},
		{"location city", "city", want.City},
		{"location street", "street", want.Street},
		{"location zip code", "zipCode", want.ZipCode},
	}
	for _, f := range fields {
		checkEqual(rec, location, "location", f.key, f.name, f.want)
	}
}

// checkExecutive checks the hiring manager. The name is checked for
// blankness and equality as two separate assertions.
func checkExecutive(rec *recorder, doc object, wantName string) {
	executive, failure := doc.child("", "executiveUser")
	if failure != nil {
		rec.check("executive present", "executiveUser", "", failure)
		return
	}

	if checkFilled(rec, executive, "executiveUser", "name", "executive name filled") {
		checkEqual(rec, executive, "executiveUser", "name", "executive name", wantName)
	} else if name, null, f := executive.str("executiveUser", "name"); f == nil {
		// Blank but present: the equality assertion still reports its own
		// mismatch.
		got := name
		if null {
			got = "null"
		}
		rec.check("executive name", "executiveUser.name", name, mismatch("executiveUser.name", wantName, got))
	}
	checkFilled(rec, executive, "executiveUser", "photoUrl", "executive photo filled")
	checkFilled(rec, executive, "executiveUser", "description", "executive description filled")
}

func checkFilled(rec *recorder, parent object, prefix, key, name string) bool {
	field := join(prefix, key)
	value, null, failure := parent.str(prefix, key)
	if failure == nil && (null || isBlank(value)) {
		failure = blank(field)
	}
	return rec.check(name, field, Preview(value), failure)
}

func checkEqual(rec *recorder, parent object, prefix, key, name, want string) bool {
	field := join(prefix, key)
	value, null, failure := parent.str(prefix, key)
	if failure == nil {
		switch {
		case null:
			failure = mismatch(field, want, "null")
		case value != want:
			failure = mismatch(field, want, value)
		}
	}
	return rec.check(name, field, value, failure)
}
