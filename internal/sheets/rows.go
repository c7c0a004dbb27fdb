package sheets

import (
	"strings"

	"github.com/hiringtools/cv-intake/internal/intake"
)

// Header is the fixed column layout of the applicant tab.
var Header = []string{
	"MsgID", "From", "Subject", "Date", "CV Link", "Name", "Email (CV)",
	"Phone", "Skills", "Job Applied For", "Status", "Education",
	"Acknowledgment Email Sent",
}

const (
	colMsgID = iota
	colFrom
	colSubject
	colDate
	colCVLink
	colName
	colEmail
	colPhone
	colSkills
	colJob
	colStatus
	colEducation
	colAckSent
	colCount
)

func rowFromRecord(r *intake.Record) []interface{} {
	phone := r.Phone
	// A leading apostrophe keeps Sheets from reinterpreting the phone as
	// a number and dropping the + or leading zeros.
	if phone != "" && !strings.HasPrefix(phone, "'") {
		phone = "'" + phone
	}

	ack := "No"
	if r.AckSent {
		ack = "Yes"
	}

	return []interface{}{
		r.MessageID, r.Sender, r.Subject, r.ReceivedAt, r.CVLink,
		r.Name, r.EmailCV, phone, r.Skills, r.JobAppliedFor,
		r.Status, r.Education, ack,
	}
}

func recordFromRow(row []interface{}) intake.Record {
	cells := make([]string, colCount)
	for i := 0; i < colCount && i < len(row); i++ {
		if s, ok := row[i].(string); ok {
			cells[i] = s
		}
	}

	return intake.Record{
		MessageID:     cells[colMsgID],
		Sender:        cells[colFrom],
		Subject:       cells[colSubject],
		ReceivedAt:    cells[colDate],
		CVLink:        cells[colCVLink],
		Name:          cells[colName],
		EmailCV:       cells[colEmail],
		Phone:         strings.TrimPrefix(cells[colPhone], "'"),
		Skills:        cells[colSkills],
		JobAppliedFor: cells[colJob],
		Status:        cells[colStatus],
		Education:     cells[colEducation],
		AckSent:       cells[colAckSent] == "Yes",
	}
}
