package validators

import "go.mongodb.org/mongo-driver/bson"

var DoctorValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"working_hours",
			"slot_duration_min",
			"is_available",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"specialty": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+[1-9]\d{6,14}$`,
			},

			"working_hours": bson.M{
				"bsonType":      "object",
				"minProperties": 1,
				"maxProperties": 7,
				"additionalProperties": bson.M{
					"bsonType": "object",
					"required": []string{"start", "end"},
					"properties": bson.M{
						"start": bson.M{
							"bsonType": "string",
							"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
						},
						"end": bson.M{
							"bsonType": "string",
							"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
						},
					},
				},
			},

			"slot_duration_min": bson.M{
				"bsonType": "int",
				"minimum":  5,
				"maximum":  240,
			},

			"is_available": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
