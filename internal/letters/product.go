package letters

import "strings"

// DefaultSubject is the product named in the subject line of health letters
const DefaultSubject = "HEALTH"

// Merchant IDs of the inactive policy letters
const (
	MotorMerchantID    = 155
	NonMotorMerchantID = 171
)

// productTypes maps policy system product names onto the label printed in
// the subject line. Names must match exactly.
var productTypes = map[string]string{
	"Motor Private":                      "MOTOR",
	"Motor Commercial":                   "MOTOR",
	"Motor Fleet":                        "MOTOR",
	"Travel Insurance":                   "TRAVEL",
	"Fire & Allied Perils":               "FIRE & ALLIED PERILS",
	"Group Personal Accident":            "GROUP PERSONAL ACCIDENT",
	"Public Liability":                   "PUBLIC LIABILITY",
	"Employer's Liability":               "EMPLOYER'S LIABILITY",
	"Money Insurance":                    "MONEY INSURANCE",
	"Professional Indemnity":             "PROFESSIONAL INDEMNITY",
	"Electronic Equipment":               "ELECTRONIC EQUIPMENT",
	"Workmen Compensation":               "WORKMEN COMPENSATION",
	"Contractor's Plant & Machinery":     "CONTRACTOR'S PLANT & MACHINERY",
	"Contractors All Risk":               "CONTRACTORS ALL RISK",
	"All Risks":                          "ALL RISKS",
	"Machinery All Risks":                "MACHINERY ALL RISKS",
	"Marine Hull":                        "MARINE HULL",
	"Fidelity Guarantee":                 "FIDELITY GUARANTEE",
	"Director's and Officer's Liability": "DIRECTOR'S AND OFFICER'S LIABILITY",
	"Sabotage and Terrorism":             "SABOTAGE AND TERRORISM",
}

// ProductType reduces a product name to its subject line label. A blank
// name is a motor policy, any OASIS plan is OASIS, and unknown names are
// upper-cased.
func ProductType(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "MOTOR"
	}
	if strings.Contains(strings.ToUpper(name), "OASIS") {
		return "OASIS"
	}
	if label, ok := productTypes[name]; ok {
		return label
	}
	return strings.ToUpper(name)
}

// InactiveMerchantID picks the payment merchant of an inactive policy
// letter: motor policies are collected on their own account
func InactiveMerchantID(productType string) int {
	if productType == "MOTOR" {
		return MotorMerchantID
	}
	return NonMotorMerchantID
}
