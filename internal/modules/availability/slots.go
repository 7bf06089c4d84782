package availability

import "golfclub/internal/domain"

// Candidate tee-off ladders, fixed by the club. The 18-hole course
// tees off in the morning, the 9-hole course after noon; the two
// ladders never overlap.
var (
	Slots18 = []string{
		"06:00", "06:15", "06:30", "06:45", "07:00", "07:15", "07:30", "07:45",
		"08:00", "08:15", "08:30", "08:45", "09:00", "09:15", "09:30", "09:45",
		"10:00", "10:15", "10:30", "10:45", "11:00", "11:15", "11:30", "11:45", "12:00",
	}
	Slots9 = []string{
		"12:15", "12:30", "12:45", "13:00", "13:15", "13:30", "13:45",
		"14:00", "14:15", "14:30", "14:45", "15:00", "15:15", "15:30", "15:45",
		"16:00", "16:15", "16:30", "16:45", "17:00",
	}
)

// Ladder returns the candidate slots for a course type, nil for an
// unknown course type.
func Ladder(courseType domain.CourseType) []string {
	switch courseType {
	case domain.Course18:
		return Slots18
	case domain.Course9:
		return Slots9
	default:
		return nil
	}
}

// InLadder reports whether slot is a candidate for the course type.
func InLadder(courseType domain.CourseType, slot string) bool {
	for _, s := range Ladder(courseType) {
		if s == slot {
			return true
		}
	}
	return false
}
