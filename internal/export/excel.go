// Package export serializes registrations as xlsx spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jsvasan/health-registration-api/internal/models"
	"github.com/jsvasan/health-registration-api/internal/utils"
)

// RegistrationHeader is the fixed 31-column header row. Column order is a
// contract other tooling depends on; do not reorder.
var RegistrationHeader = []string{
	"Registrant Name",
	"Apt Number",
	"Date of Birth",
	"Age",
	"Phone",
	"Blood Group",
	"Insurance Policy",
	"Insurance Company",
	"Doctor Name",
	"Doctor Contact",
	"Hospital Name",
	"Hospital Number",
	"Current Ailments",
	"Buddy 1 Name",
	"Buddy 1 Phone",
	"Buddy 1 Email",
	"Buddy 1 Apt",
	"Buddy 2 Name",
	"Buddy 2 Phone",
	"Buddy 2 Email",
	"Buddy 2 Apt",
	"Next of Kin 1 Name",
	"Next of Kin 1 Phone",
	"Next of Kin 1 Email",
	"Next of Kin 2 Name",
	"Next of Kin 2 Phone",
	"Next of Kin 2 Email",
	"Next of Kin 3 Name",
	"Next of Kin 3 Phone",
	"Next of Kin 3 Email",
	"Registered At",
}

const sheetName = "Registrations"

// Filename returns a unique attachment filename for an export.
func Filename() string {
	return fmt.Sprintf("registrations-%s.xlsx", uuid.NewString())
}

// RegistrationRow flattens a registration into the 31-column layout,
// blank-padding missing buddy and next-of-kin slots.
func RegistrationRow(reg *models.Registration, now time.Time) []string {
	row := make([]string, 0, len(RegistrationHeader))
	p := reg.PersonalInfo
	row = append(row,
		p.RegistrantName,
		p.RegistrantAptNumber,
		p.DateOfBirth,
		utils.AgeFromDOB(p.DateOfBirth, now),
		p.RegistrantPhone,
		p.BloodGroup,
		p.InsurancePolicy,
		p.InsuranceCompany,
		p.DoctorName,
		p.DoctorContact,
		p.HospitalName,
		p.HospitalNumber,
		p.CurrentAilments,
	)
	for i := 0; i < 2; i++ {
		if i < len(reg.Buddies) {
			b := reg.Buddies[i]
			row = append(row, b.Name, b.Phone, b.Email, b.AptNumber)
		} else {
			row = append(row, "", "", "", "")
		}
	}
	for i := 0; i < 3; i++ {
		if i < len(reg.NextOfKin) {
			k := reg.NextOfKin[i]
			row = append(row, k.Name, k.Phone, k.Email)
		} else {
			row = append(row, "", "", "")
		}
	}
	row = append(row, reg.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	return row
}

// Registrations builds an xlsx workbook with the fixed header row and one
// row per registration.
func Registrations(regs []models.Registration, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close only on the error paths.

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range RegistrationHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, reg := range regs {
		values := RegistrationRow(&reg, now)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
