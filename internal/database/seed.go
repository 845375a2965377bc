package database

import (
	"context"
	"fmt"
)

// SeedAccounts carries the pre-hashed passwords of the seeded accounts.
type SeedAccounts struct {
	AdminPasswordHash []byte
	UserPasswordHash  []byte
}

const (
	SeedAdminEmail = "admin@tazasu.kz"
	SeedUserEmail  = "user@test.com"
)

type seedComplaint struct {
	name        string
	lat, lng    float64
	address     string
	description string
	status      string
}

var seedComplaints = []seedComplaint{
	{"Мутная вода из крана", 43.238949, 76.889709, "Алматы, ул. Абая 150", "Вода из крана мутная и с неприятным запахом уже третий день.", "pending"},
	{"Ржавая вода", 51.169392, 71.449074, "Астана, пр. Республики 24", "Из крана течёт ржавая вода после ремонта труб.", "in_progress"},
	{"Нет напора воды", 42.341685, 69.590101, "Шымкент, ул. Тауке хана 12", "Очень слабый напор воды на верхних этажах.", "resolved"},
	{"Запах хлорки", 49.806406, 73.085485, "Караганда, ул. Ерубаева 35", "Сильный запах хлорки в питьевой воде.", "pending"},
	{"Загрязнение реки", 50.283937, 57.166978, "Актобе, набережная реки Илек", "Сброс мусора и отходов в реку рядом с жилым районом.", "pending"},
}

var seedUpdates = []struct {
	title       string
	description string
}{
	{"Запуск платформы TAZA SU", "Теперь вы можете сообщать о проблемах с качеством воды в своём районе."},
	{"Карта обращений", "На карте отображаются все публичные обращения граждан с их текущим статусом."},
}

// Seed inserts demo accounts, complaints and announcements. Rows that
// already exist are left alone.
func Seed(ctx context.Context, db DBTX, accounts SeedAccounts) error {
	const insertUser = `
		INSERT INTO users (name, email, password, phone, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`
	if _, err := db.Exec(ctx, insertUser, "Администратор", SeedAdminEmail, string(accounts.AdminPasswordHash), nil, "admin"); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if _, err := db.Exec(ctx, insertUser, "Тестовый пользователь", SeedUserEmail, string(accounts.UserPasswordHash), "+7 777 123 4567", "user"); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	var userID int64
	if err := db.QueryRow(ctx, `SELECT id FROM users WHERE LOWER(email) = $1`, SeedUserEmail).Scan(&userID); err != nil {
		return fmt.Errorf("lookup seed user: %w", err)
	}

	var existing int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM complaints WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		return fmt.Errorf("count seed complaints: %w", err)
	}
	if existing == 0 {
		const insertComplaint = `
			INSERT INTO complaints (user_id, name, location_lat, location_lng, location_address, description, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for _, c := range seedComplaints {
			if _, err := db.Exec(ctx, insertComplaint, userID, c.name, c.lat, c.lng, c.address, c.description, c.status); err != nil {
				return fmt.Errorf("seed complaint %q: %w", c.name, err)
			}
		}
	}

	for _, u := range seedUpdates {
		const insertUpdate = `
			INSERT INTO updates (title, description)
			SELECT $1::varchar, $2::text
			WHERE NOT EXISTS (SELECT 1 FROM updates WHERE title = $1::varchar)
		`
		if _, err := db.Exec(ctx, insertUpdate, u.title, u.description); err != nil {
			return fmt.Errorf("seed update %q: %w", u.title, err)
		}
	}

	return nil
}
