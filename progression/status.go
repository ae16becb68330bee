// progression/status.go
package progression

import (
	"github.com/avesguide/academy_api/dto"
	"github.com/avesguide/academy_api/shared"
)

// LessonStatus derives the runtime state of lesson i from the authoritative
// course snapshot. Status is never stored: recomputing from the completed
// set plus course order prevents drift after partial reloads.
//
// The first lesson is never locked; every other lesson is locked until its
// predecessor is completed. An unlocked lesson with some but not all of its
// activities answered correctly is in progress.
func LessonStatus(course *dto.CourseResponse, i int) string {
	if i < 0 || i >= len(course.Lessons) {
		return shared.LessonStatusLocked
	}
	if isLessonCompleted(course, i) {
		return shared.LessonStatusCompleted
	}
	if i > 0 && !isLessonCompleted(course, i-1) {
		return shared.LessonStatusLocked
	}
	if completedActivityCount(course, i) > 0 {
		return shared.LessonStatusInProgress
	}
	return shared.LessonStatusUnlocked
}

// LessonStatuses derives every lesson's status in course order.
func LessonStatuses(course *dto.CourseResponse) []string {
	statuses := make([]string, len(course.Lessons))
	for i := range course.Lessons {
		statuses[i] = LessonStatus(course, i)
	}
	return statuses
}

func isLessonCompleted(course *dto.CourseResponse, i int) bool {
	progress, ok := course.Enrollment.LessonProgress[course.Lessons[i].ID]
	return ok && progress.Status == shared.ProgressStatusCompleted
}

func completedActivityCount(course *dto.CourseResponse, i int) int {
	done := make(map[string]bool, len(course.CompletedActivities))
	for _, id := range course.CompletedActivities {
		done[id] = true
	}
	count := 0
	for _, act := range course.Lessons[i].Activities {
		if done[act.ID] {
			count++
		}
	}
	return count
}
