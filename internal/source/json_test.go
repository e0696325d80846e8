package source

import (
	"errors"
	"math"
	"testing"
)

func TestJSON_InvalidFormat(t *testing.T) {
	for _, in := range []string{"not json", "", "[{", "{\"a\":}"} {
		_, err := JSON{}.Parse([]byte(in))
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidFormat", in, err)
		}
	}
}

func TestJSON_InvalidShape(t *testing.T) {
	for _, in := range []string{"{}", `"text"`, "42", "null", `{"projectName":"x"}`} {
		_, err := JSON{}.Parse([]byte(in))
		if !errors.Is(err, ErrInvalidShape) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidShape", in, err)
		}
	}
}

func TestJSON_Demo(t *testing.T) {
	in := `[{"projectName":"Demo","valueStream":"Payments","subStream":"Billing","category":"Capex","target":80,"achieved":60}]`

	b, err := JSON{}.Parse([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(b.Records))
	}
	p := b.Records[0]
	if p.ProjectName != "Demo" || p.ValueStream != "Payments" || p.SubStream != "Billing" || p.Category != "Capex" {
		t.Errorf("text fields = %+v", p)
	}
	if p.Target != 80 || p.Achieved != 60 {
		t.Errorf("Target/Achieved = %v/%v", p.Target, p.Achieved)
	}
	if !math.IsNaN(p.ResourceCount) {
		t.Errorf("absent ResourceCount = %v, want NaN", p.ResourceCount)
	}
	// resourceCount and the three hours fields are absent
	if b.Warnings != 4 {
		t.Errorf("Warnings = %d, want 4 for absent numeric fields", b.Warnings)
	}
	if string(b.Raw) != in {
		t.Errorf("Raw = %s, want the input verbatim", b.Raw)
	}
}

func TestJSON_FieldTypes(t *testing.T) {
	in := `[{"projectName":7,"catagaory":"Opex","resourceCount":"5","weeklyHours":true,"monthlyHours":null,"quaterlyHours":12.5,"target":1e2,"achieved":-3}]`

	b, err := JSON{}.Parse([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := b.Records[0]
	if p.ProjectName != "7" {
		t.Errorf("ProjectName = %q, want JSON text of the number", p.ProjectName)
	}
	if p.Category != "Opex" {
		t.Errorf("Category alias not applied: %q", p.Category)
	}
	if p.ResourceCount != 5 {
		t.Errorf("ResourceCount = %v, want 5 from the numeric string", p.ResourceCount)
	}
	for name, v := range map[string]float64{"weeklyHours": p.WeeklyHours, "monthlyHours": p.MonthlyHours} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
	if p.QuarterlyHours != 12.5 || p.Target != 100 || p.Achieved != -3 {
		t.Errorf("numbers = %v/%v/%v", p.QuarterlyHours, p.Target, p.Achieved)
	}
	if b.Warnings != 2 {
		t.Errorf("Warnings = %d, want 2", b.Warnings)
	}
}

func TestJSON_NumericStrings(t *testing.T) {
	in := `[{"projectName":"Strings","category":"Capex","target":"80","achieved":" 60 ","resourceCount":"","weeklyHours":"0x10","monthlyHours":"12abc","quarterlyHours":"1e2"}]`

	b, err := JSON{}.Parse([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := b.Records[0]
	if p.Target != 80 || p.Achieved != 60 {
		t.Fatalf("Target/Achieved = %v/%v, want 80/60", p.Target, p.Achieved)
	}
	if !p.IsAtRisk() || p.ProgressPercent() != 75 {
		t.Errorf("IsAtRisk = %v, ProgressPercent = %v, want true/75", p.IsAtRisk(), p.ProgressPercent())
	}
	if p.ResourceCount != 0 || p.WeeklyHours != 16 || p.QuarterlyHours != 100 {
		t.Errorf("coerced = %v/%v/%v, want 0/16/100", p.ResourceCount, p.WeeklyHours, p.QuarterlyHours)
	}
	if !math.IsNaN(p.MonthlyHours) {
		t.Errorf("MonthlyHours = %v, want NaN", p.MonthlyHours)
	}
	if b.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", b.Warnings)
	}
}

func TestJSON_NonObjectElements(t *testing.T) {
	b, err := JSON{}.Parse([]byte(`[1, null, "x", {"projectName":"ok"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Records) != 4 {
		t.Fatalf("len(Records) = %d, want 4", len(b.Records))
	}
	if b.Records[0].ProjectName != "" || !math.IsNaN(b.Records[0].Target) {
		t.Errorf("non-object element should be an empty record: %+v", b.Records[0])
	}
	if b.Records[3].ProjectName != "ok" {
		t.Errorf("Records[3].ProjectName = %q", b.Records[3].ProjectName)
	}
}

func TestNotice(t *testing.T) {
	_, errFmt := JSON{}.Parse([]byte("not json"))
	_, errShape := JSON{}.Parse([]byte("{}"))

	if title, body := Notice(errFmt); title != "Error" || body != "Invalid JSON format." {
		t.Errorf("Notice(format) = %q, %q", title, body)
	}
	if title, body := Notice(errShape); title != "Invalid JSON" || body != "Please provide an array of objects." {
		t.Errorf("Notice(shape) = %q, %q", title, body)
	}
}
