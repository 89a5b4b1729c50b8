package integrationtests

import (
	"fmt"
	"testing"

	"carebook/pkg/model"
	"carebook/test/integration/testutil"
)

// Gate: TEST_DOCTORS_URL, plus TEST_MONGO_URI / TEST_DB_NAME.

func setup(t *testing.T) (*testutil.Client, *testutil.MongoHelper) {
	t.Helper()

	client := testutil.RequireServer(t, "TEST_DOCTORS_URL")
	mongo := testutil.NewMongoHelper(t)
	mongo.CleanCollection(t, testutil.DoctorsCollection)
	t.Cleanup(func() {
		mongo.CleanCollection(t, testutil.DoctorsCollection)
		mongo.Close(t)
	})
	return client, mongo
}

func doctorPayload(name string) map[string]any {
	return map[string]any{
		"name":      name,
		"specialty": "Cardiology",
		"phone":     "+972501234567",
		"working_hours": map[string]any{
			"monday":  map[string]string{"start": "09:00", "end": "17:00"},
			"tuesday": map[string]string{"start": "09:00", "end": "17:00"},
		},
		"slot_duration_min": 20,
	}
}

func decodeDoctor(t *testing.T, resp *testutil.Response) *model.Doctor {
	t.Helper()
	var result struct {
		Data model.Doctor `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode doctor: %v. Body: %s", err, string(resp.Body))
	}
	return &result.Data
}

func TestCreateAndFetchDoctor(t *testing.T) {
	client, _ := setup(t)

	resp := client.POST(t, "/api/v1/doctors", doctorPayload("Dr. Miriam Adler"))
	testutil.AssertStatusCode(t, resp, 201)
	created := decodeDoctor(t, resp)

	if created.ID == "" {
		t.Error("expected doctor ID to be set")
	}
	if created.Specialty != "cardiology" {
		t.Errorf("expected specialty normalized to 'cardiology', got %q", created.Specialty)
	}
	if !created.IsAvailable {
		t.Error("expected new doctor to accept appointments")
	}

	fetched := decodeDoctor(t, client.GET(t, "/api/v1/doctors/"+created.ID))
	if fetched.Name != created.Name {
		t.Errorf("expected name %q, got %q", created.Name, fetched.Name)
	}
	if len(fetched.WorkingHours) != 2 {
		t.Errorf("expected 2 working days, got %d", len(fetched.WorkingHours))
	}
}

func TestCreateAppliesScheduleDefaults(t *testing.T) {
	client, _ := setup(t)

	payload := doctorPayload("Dr. Default Schedule")
	delete(payload, "working_hours")
	delete(payload, "slot_duration_min")

	resp := client.POST(t, "/api/v1/doctors", payload)
	testutil.AssertStatusCode(t, resp, 201)
	created := decodeDoctor(t, resp)

	if len(created.WorkingHours) == 0 {
		t.Error("expected default working hours to be applied")
	}
	if created.SlotDurationMin <= 0 {
		t.Errorf("expected default slot duration, got %d", created.SlotDurationMin)
	}
}

func TestInvalidScheduleRejected(t *testing.T) {
	client, _ := setup(t)

	payload := doctorPayload("Dr. Inverted Window")
	payload["working_hours"] = map[string]any{
		"monday": map[string]string{"start": "17:00", "end": "09:00"},
	}

	resp := client.POST(t, "/api/v1/doctors", payload)
	testutil.AssertStatusCode(t, resp, 422)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	client, _ := setup(t)

	created := decodeDoctor(t, client.POST(t, "/api/v1/doctors", doctorPayload("Dr. Partial Update")))

	update := map[string]any{"specialty": "Pediatrics", "slot_duration_min": 15}
	resp := client.PATCH(t, "/api/v1/doctors/"+created.ID, update)
	testutil.AssertStatusCode(t, resp, 200)
	updated := decodeDoctor(t, resp)

	if updated.Specialty != "pediatrics" {
		t.Errorf("expected specialty 'pediatrics', got %q", updated.Specialty)
	}
	if updated.SlotDurationMin != 15 {
		t.Errorf("expected slot duration 15, got %d", updated.SlotDurationMin)
	}
	if updated.Name != created.Name {
		t.Errorf("expected name untouched, got %q", updated.Name)
	}
}

func TestAvailabilityToggle(t *testing.T) {
	client, _ := setup(t)

	created := decodeDoctor(t, client.POST(t, "/api/v1/doctors", doctorPayload("Dr. On Leave")))

	resp := client.PATCH(t, fmt.Sprintf("/api/v1/doctors/%s/availability", created.ID),
		map[string]any{"is_available": false})
	testutil.AssertStatusCode(t, resp, 200)
	toggled := decodeDoctor(t, resp)
	if toggled.IsAvailable {
		t.Error("expected doctor to be suspended")
	}

	fetched := decodeDoctor(t, client.GET(t, "/api/v1/doctors/"+created.ID))
	if fetched.IsAvailable {
		t.Error("expected suspension to persist")
	}
}

func TestSpecialtyListing(t *testing.T) {
	client, _ := setup(t)

	p1 := doctorPayload("Dr. Heart One")
	p2 := doctorPayload("Dr. Heart Two")
	p3 := doctorPayload("Dr. Skin")
	p3["specialty"] = "Dermatology"

	for _, p := range []map[string]any{p1, p2, p3} {
		testutil.AssertStatusCode(t, client.POST(t, "/api/v1/doctors", p), 201)
	}

	resp := client.GET(t, "/api/v1/doctors?specialty=cardiology")
	testutil.AssertStatusCode(t, resp, 200)

	var result struct {
		Data []model.Doctor `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode doctors: %v", err)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected 2 cardiologists, got %d", len(result.Data))
	}
}

func TestDeleteDoctor(t *testing.T) {
	client, _ := setup(t)

	created := decodeDoctor(t, client.POST(t, "/api/v1/doctors", doctorPayload("Dr. Departing")))

	testutil.AssertStatusCode(t, client.DELETE(t, "/api/v1/doctors/"+created.ID), 204)
	testutil.AssertStatusCode(t, client.GET(t, "/api/v1/doctors/"+created.ID), 404)
}
