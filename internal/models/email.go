package models

type Email struct {
	From    string
	To      string
	Subject string
	Text    string
}
