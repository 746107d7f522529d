package main

import "github.com/stemsi/exstem-roster/internal/model"

var names = []string{
	"Budi Santoso", "Siti Aminah", "Andi Pratama", "Rina Wati", "Joko Susilo",
	"Ayu Lestari", "Dodi Kusuma", "Eka Putri", "Fahri Hamzah", "Gita Savitri",
	"Hendra Gunawan", "Ika Sari", "Jamal Mirdad", "Kiki Fatmala", "Lukman Hakim",
	"Maya Septiana", "Nanda Pratama", "Oki Setiana", "Putri Dian", "Qori Maharani",
	"Rafi Ahmad", "Siska Saraswati", "Toni Setiawan", "Umi Kalsum", "Vina Panduwinata",
}

var courses = []string{"Matemática", "História", "Física", "Química", "Biologia"}

// sampleStudents builds a deterministic roster of n students. Names repeat
// once the list is exhausted; duplicates are valid roster entries.
func sampleStudents(n int) []model.Student {
	students := make([]model.Student, 0, n)
	for i := 0; i < n; i++ {
		students = append(students, model.Student{
			Name:   names[i%len(names)],
			Age:    17 + i%6,
			Course: courses[i%len(courses)],
			// 4.0 .. 10.0 in steps of 0.5
			Grade: 4 + float64((i*7)%13)*0.5,
		})
	}
	return students
}
