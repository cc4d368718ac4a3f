package validators

import "go.mongodb.org/mongo-driver/bson"

// ReservationValidator is the server-side schema the sanitizer anticipates.
// Note the payment_status enum has no "partial" member; the sanitizer folds
// "partial" into "unpaid" before a write ever reaches this validator.
var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"vehicle_id",
			"customer_id",
			"start_time",
			"end_time",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"vehicle_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"customer_id": bson.M{
				"bsonType": "string",
				"pattern":  "^cst_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$",
			},

			"start_time": bson.M{
				"bsonType": "date",
			},

			"end_time": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"scheduled",
					"active",
					"confirmed",
					"completed",
					"cancelled",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"paid",
					"unpaid",
					"overdue",
					"refunded",
				},
			},

			"daily_rate": bson.M{
				"bsonType": []string{"double", "int", "long", "null"},
				"minimum":  0,
			},

			"days": bson.M{
				"bsonType": []string{"double", "int", "long", "null"},
				"minimum":  0,
			},

			"fees": bson.M{
				"bsonType": []string{"double", "int", "long", "null"},
				"minimum":  0,
			},

			"deposit": bson.M{
				"bsonType": []string{"double", "int", "long", "null"},
				"minimum":  0,
			},

			"total_amount": bson.M{
				"bsonType": []string{"double", "int", "long", "null"},
				"minimum":  0,
			},

			"pickup_location": bson.M{
				"bsonType":  []string{"string", "null"},
				"maxLength": 255,
			},

			"dropoff_location": bson.M{
				"bsonType":  []string{"string", "null"},
				"maxLength": 255,
			},

			"notes": bson.M{
				"bsonType":  []string{"string", "null"},
				"maxLength": 2000,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
