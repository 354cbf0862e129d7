package advisory

import "fmt"

func insightPrompt(b BookInfo) string {
	category := b.Category
	if category == "" {
		category = FallbackCategory
	}
	return fmt.Sprintf(
		"คุณเป็นบรรณารักษ์ผู้เชี่ยวชาญ โปรดเขียนบทแนะนำหนังสือ %q ของ %s (หมวด %s) "+
			"อธิบายสั้น ๆ ว่าเล่มนี้ว่าด้วยอะไร และให้เหตุผลสามข้อที่ผู้อ่านควรหยิบมาอ่าน "+
			"ตอบเป็นภาษาไทย ใช้น้ำเสียงสุภาพและกระชับ",
		b.Title, b.Author, category)
}

func categoryPrompt(title, author string) string {
	return fmt.Sprintf(
		"จัดหมวดหมู่ห้องสมุดให้หนังสือ %q ของ %s "+
			"ตอบเป็นชื่อหมวดภาษาไทยสั้น ๆ ไม่เกินสามคำในฟิลด์ category",
		title, author)
}

func coverPrompt(title, category string) string {
	return fmt.Sprintf(
		"Illustrated book cover artwork for %q, a %s title. "+
			"Painterly, high quality, portrait composition. Do not render any lettering or text.",
		title, category)
}
