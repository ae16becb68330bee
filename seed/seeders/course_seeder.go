package seeders

import (
	"encoding/json"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/avesguide/academy_api/model"
	"github.com/avesguide/academy_api/shared"
)

// CourseSeeder seeds the demo bird-watching course. The activity payloads
// deliberately mix canonical and legacy shapes so a seeded database
// exercises the whole normalizer.
type CourseSeeder struct {
	db *gorm.DB
}

func NewCourseSeeder(db *gorm.DB) *CourseSeeder {
	return &CourseSeeder{db: db}
}

func (s *CourseSeeder) SeedDemoCourse() error {
	course := s.demoCourse()

	var existing model.Course
	if err := s.db.Where("id = ?", course.ID).First(&existing).Error; err == nil {
		log.Printf("Course %s already exists, skipping", course.Title)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := s.db.Create(&course).Error; err != nil {
		log.Printf("Error creating course %s: %v", course.Title, err)
		return err
	}

	log.Printf("Created course: %s (%d lessons)", course.Title, len(course.Lessons))
	return nil
}

func (s *CourseSeeder) demoCourse() model.Course {
	now := time.Now()

	return model.Course{
		ID:          "course_andean_birds",
		Slug:        "andean-forest-birds",
		Title:       "Birds of the Andean Forest",
		Description: "Learn to identify the signature birds of the Andean cloud forest by sight, diet and song.",
		IsActive:    true,
		CreatedAt:   now,
		Lessons: []model.Lesson{
			{
				ID:                "lesson_hummingbirds",
				CourseID:          "course_andean_birds",
				Slug:              "meet-the-hummingbirds",
				Title:             "Meet the Hummingbirds",
				Order:             1,
				Body:              "The cloud forest hosts more hummingbird species than anywhere else on Earth. Start by learning to tell the Sword-billed Hummingbird from the Sparkling Violetear.",
				EstimatedDuration: 10,
				IsActive:          true,
				CreatedAt:         now,
				Activities: []model.Activity{
					{
						ID:       "act_hb_quiz",
						LessonID: "lesson_hummingbirds",
						Type:     shared.ActivityTypeQuizMultiple,
						Order:    1,
						Prompt:   "Which hummingbird has a bill longer than its body?",
						Payload: rawJSON(map[string]interface{}{
							"options": []map[string]interface{}{
								{"id": "opt_sword", "text": "Sword-billed Hummingbird", "isCorrect": true, "feedback": "Its bill is the longest relative to body size of any bird."},
								{"id": "opt_violetear", "text": "Sparkling Violetear", "isCorrect": false},
								{"id": "opt_coronet", "text": "Buff-tailed Coronet", "isCorrect": false},
							},
						}),
						MaxPoints: 10,
						Badge:     "🌸",
						CreatedAt: now,
					},
					{
						ID:       "act_hb_tf",
						LessonID: "lesson_hummingbirds",
						Type:     shared.ActivityTypeQuizTrueFalse,
						Order:    2,
						Prompt:   "Hummingbirds can fly backwards.",
						Payload: rawJSON(map[string]interface{}{
							"correct_answer": "true",
						}),
						MaxPoints: 5,
						CreatedAt: now,
					},
				},
			},
			{
				ID:                "lesson_feeding",
				CourseID:          "course_andean_birds",
				Slug:              "feeding-habits",
				Title:             "Feeding Habits",
				Order:             2,
				Body:              "What a bird eats shapes where you will find it. Match each species to its diet and pair the feeding styles you observed.",
				EstimatedDuration: 15,
				IsActive:          true,
				CreatedAt:         now,
				Activities: []model.Activity{
					{
						ID:       "act_feed_drag",
						LessonID: "lesson_feeding",
						Type:     shared.ActivityTypeDragDrop,
						Order:    1,
						Prompt:   "Drag each bird onto its primary food source.",
						Payload: rawJSON(map[string]interface{}{
							"pairs": []map[string]interface{}{
								{"id": "pair_toucan", "element": "Plate-billed Mountain Toucan", "target": "Wild figs"},
								{"id": "pair_flowerpiercer", "element": "Masked Flowerpiercer", "target": "Nectar (pierced corollas)"},
								{"id": "pair_antpitta", "element": "Chestnut-crowned Antpitta", "target": "Earthworms"},
							},
						}),
						MaxPoints: 15,
						Badge:     "🪱",
						CreatedAt: now,
					},
					{
						ID:       "act_feed_match",
						LessonID: "lesson_feeding",
						Type:     shared.ActivityTypeMatching,
						Order:    2,
						Prompt:   "Connect each feeding style with the species that uses it.",
						Payload: rawJSON(map[string]interface{}{
							"pairs": []map[string]interface{}{
								{"id": "m_hover", "term": "Hovering", "match": "Sword-billed Hummingbird"},
								{"id": "m_glean", "term": "Foliage gleaning", "match": "Pearled Treerunner"},
								{"id": "m_sally", "term": "Aerial sallying", "match": "Streak-throated Bush-Tyrant"},
							},
						}),
						MaxPoints: 15,
						CreatedAt: now,
					},
				},
			},
			{
				ID:                "lesson_songs",
				CourseID:          "course_andean_birds",
				Slug:              "songs-and-calls",
				Title:             "Songs and Calls",
				Order:             3,
				Body:              "Most cloud-forest birds are heard before they are seen. These exercises use the legacy payload shapes still present in older content.",
				EstimatedDuration: 12,
				IsActive:          true,
				CreatedAt:         now,
				Activities: []model.Activity{
					{
						// Legacy map-shaped drag_drop payload.
						ID:       "act_song_drag",
						LessonID: "lesson_songs",
						Type:     shared.ActivityTypeDragDrop,
						Order:    1,
						Prompt:   "Place each song description next to its singer.",
						Payload: rawJSON(map[string]interface{}{
							"items": map[string]string{
								"Deep cooing whistle": "Golden-headed Quetzal",
								"Flute-like spiral":   "Andean Solitaire",
							},
						}),
						MaxPoints: 10,
						CreatedAt: now,
					},
					{
						// Legacy true/false shape using is_true.
						ID:       "act_song_tf",
						LessonID: "lesson_songs",
						Type:     shared.ActivityTypeQuizTrueFalse,
						Order:    2,
						Prompt:   "The Andean Solitaire sings mostly at midday.",
						Payload: rawJSON(map[string]interface{}{
							"is_true": false,
						}),
						MaxPoints: 5,
						Badge:     "🎵",
						CreatedAt: now,
					},
				},
			},
			{
				// Simple lesson: no activities, completes on first visit.
				ID:                "lesson_field_notes",
				CourseID:          "course_andean_birds",
				Slug:              "keeping-field-notes",
				Title:             "Keeping Field Notes",
				Order:             4,
				Body:              "A good field note records date, place, weather, behavior and your confidence in the identification. Review the checklist before your first outing.",
				EstimatedDuration: 5,
				IsActive:          true,
				CreatedAt:         now,
			},
		},
	}
}

func rawJSON(v interface{}) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
