package validators

import "go.mongodb.org/mongo-driver/bson"

var CustomerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"full_name",
			"phone",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
				"pattern":  "^cst_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$",
			},

			"full_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 120,
			},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  "^\\+[1-9]\\d{7,14}$",
			},

			"email": bson.M{
				"bsonType":  []string{"string", "null"},
				"maxLength": 254,
			},

			"id_document_type": bson.M{
				"bsonType":  []string{"string", "null"},
				"maxLength": 40,
			},

			"id_document_number": bson.M{
				"bsonType":  []string{"string", "null"},
				"maxLength": 60,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
