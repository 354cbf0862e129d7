package seed

import (
	"fmt"
	"math/rand"
	"time"

	"lumina/internal/entity"
)

var (
	syntheticCategories = []string{"วรรณกรรมไทย", "วรรณกรรมแปล", "วรรณกรรมเยาวชน", "วิชาการ", "ดิสโทเปีย", "ประวัติศาสตร์", "วิทยาศาสตร์", "ปรัชญา"}
	syntheticWords      = []string{"แสง", "เงา", "ทะเล", "ภูเขา", "ดวงดาว", "สายลม", "ความฝัน", "เวลา", "บ้าน", "เมือง"}
	syntheticAuthors    = []string{"ประภาพร ใจดี", "วิชัย ศรีสุข", "อรุณี แก้วมณี", "ธนากร บุญมา", "สุดารัตน์ พรหมมา"}
)

// Synthetic generates a dataset of n books and one member per ten books for
// load testing. The same seed always yields the same dataset.
func Synthetic(n int, seed int64) Dataset {
	r := rand.New(rand.NewSource(seed))
	ds := Dataset{Books: make([]entity.Book, 0, n)}

	for i := 0; i < n; i++ {
		w1 := syntheticWords[r.Intn(len(syntheticWords))]
		w2 := syntheticWords[r.Intn(len(syntheticWords))]
		isbn := fmt.Sprintf("978616%06d", i+1)
		ds.Books = append(ds.Books, entity.Book{
			ID:            fmt.Sprintf("sb%d", i+1),
			Title:         fmt.Sprintf("%s แห่ง%s เล่ม %d", w1, w2, i+1),
			Author:        syntheticAuthors[r.Intn(len(syntheticAuthors))],
			ISBN:          isbn + checkDigit13(isbn),
			Category:      syntheticCategories[r.Intn(len(syntheticCategories))],
			Status:        entity.BookAvailable,
			PublishedYear: 2500 + r.Intn(68),
			Description:   fmt.Sprintf("หนังสือว่าด้วย%sและ%s", w1, w2),
		})
	}

	members := n / 10
	if members < 1 {
		members = 1
	}
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < members; i++ {
		ds.Members = append(ds.Members, MemberRecord{Member: entity.Member{
			ID:       fmt.Sprintf("sm%d", i+1),
			Name:     fmt.Sprintf("สมาชิก %d", i+1),
			Email:    fmt.Sprintf("member%d@example.com", i+1),
			Phone:    fmt.Sprintf("08%d-%03d-%04d", r.Intn(10), r.Intn(1000), r.Intn(10000)),
			JoinDate: base.AddDate(0, 0, r.Intn(600)).Format(entity.JoinDateLayout),
		}})
	}
	return ds
}

// checkDigit13 computes the ISBN-13 check digit for a 12-digit prefix.
func checkDigit13(prefix string) string {
	sum := 0
	for i, c := range prefix {
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return fmt.Sprint((10 - sum%10) % 10)
}
